package domain

import "time"

// NewInjectorWithEntropy creates an Injector drawing unseeded runs from entropy.
func NewInjectorWithEntropy(entropy func() (int64, error), stages ...Stage) Injector {
	inj, _ := NewInjector(stages...).(*injector)
	inj.entropy = entropy

	return inj
}

// SetWorkflowClock replaces the time source and run id generator of wf.
func SetWorkflowClock(wf Workflow, now func() time.Time, newID func() string) {
	w, _ := wf.(*workflow)
	w.now = now
	w.newID = newID
}
