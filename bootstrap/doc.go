// Package bootstrap runs a service: it validates the typed config, sets up
// the logger, starts registered components in order, waits for a signal and
// stops them in reverse.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(storageComponent)
//	app.RegisterComponent(serverComponent)
//	return app.Run(ctx)
//
// RunTask is the same lifecycle around a finite task, used by one-shot
// commands.
package bootstrap
