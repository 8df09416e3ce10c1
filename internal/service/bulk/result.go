package bulk

// ItemError names one failed batch item and why it failed.
type ItemError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Result is the partial-success envelope: Success+Failed always equals the
// number of submitted items, and every failed item appears in Errors.
type Result struct {
	Success int         `json:"success"`
	Failed  int         `json:"failed"`
	Errors  []ItemError `json:"errors"`
}

func (r *Result) fail(id string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, ItemError{ID: id, Reason: err.Error()})
}
