// Package health serves liveness and readiness probes for long-running
// beans processes such as "beans watch".
//
// Components register named checks; readiness runs them concurrently with a
// per-check timeout and reports "ready" or "degraded":
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("registry", func(ctx context.Context) error {
//	    if mgr.Registry() == nil {
//	        return errors.New("no registry loaded")
//	    }
//	    return nil
//	})
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, version)
//
// Endpoints:
//   - /health: liveness, always 200 while the process runs
//   - /ready: readiness, 503 when any check fails
//   - /version: build information
package health
