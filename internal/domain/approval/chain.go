package approval

// chainTemplate is an ordered list of stage names for one family of
// request types.
type chainTemplate []StageName

var (
	standardChain   = chainTemplate{StageMentor, StageClassAdvisor, StageHOD, StagePrincipal}
	internshipChain = chainTemplate{StageMentor, StageClassAdvisor, StageHOD, StagePlacementOfficer, StagePrincipal}
)

// ChainFor returns the canonical stage order for a request type. Internship
// requests carry the Placement Officer stage; every other type, including
// unknown ones, uses the standard chain.
func ChainFor(t RequestType) []StageName {
	tmpl := standardChain
	if t == RequestTypeInternship {
		tmpl = internshipChain
	}
	out := make([]StageName, len(tmpl))
	copy(out, tmpl)
	return out
}

// InChain reports whether stage belongs to the chain of request type t.
func InChain(t RequestType, stage StageName) bool {
	for _, s := range ChainFor(t) {
		if s == stage {
			return true
		}
	}
	return false
}
