package scheduler

// ExportedExecuteDispatch exposes the private executeDispatch method for external tests.
func (s *Scheduler) ExportedExecuteDispatch() {
	s.executeDispatch()
}
