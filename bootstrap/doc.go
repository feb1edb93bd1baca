// Package bootstrap runs a voxpersona process: it validates configuration,
// starts registered components, runs configuration callbacks that wire the
// application onto started infrastructure, and shuts everything down on a
// signal.
//
//	app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(log))
//	app.RegisterComponent(database.NewComponent(cfg.Database, log))
//	app.OnConfigure(func(ctx context.Context, app *bootstrap.App[*Config]) error {
//	    // build services on the started database, register the HTTP server
//	    return app.RegisterComponent(server.NewComponent(srv))
//	})
//	err = app.Run(ctx)
package bootstrap
