package stage

// Health is a stage's readiness as reported to the status command.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy reports name as ready.
func Healthy(name string) Health { return Health{Name: name, Ready: true} }

// Unhealthy reports name as not ready, with detail naming the cause.
func Unhealthy(name, detail string) Health { return Health{Name: name, Detail: detail} }
