// Package bootstrap wires a returner-capable agent: configuration, logging,
// optional OpenTelemetry export and the built-in returners.
//
//	app, err := bootstrap.NewApp(ctx, "minion")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Shutdown(context.Background())
//
//	err = app.Return(ctx, "mongo,xmpp", result)
package bootstrap
