// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

/*
Package supervisor runs Filmrec's long-lived services under a suture v4 tree.

	RootSupervisor ("filmrec")
	├── DataSupervisor ("data-layer")
	│   └── DatasetLoaderService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's decaying failure counter; supervisor
events are logged through sutureslog using the slog adapter from the logging
package.

Usage from main.go:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    logging.Fatal().Err(err).Msg("create supervisor tree")
	}
	tree.AddDataService(services.NewDatasetLoaderService(store, loaderCfg))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

The service wrappers live in the services subpackage.
*/
package supervisor
