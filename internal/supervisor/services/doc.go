// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

/*
Package services provides suture.Service wrappers for Filmrec components.

Each wrapper turns a component's lifecycle into suture's context-aware

	Serve(ctx context.Context) error

and implements fmt.Stringer so supervisor events name the service.

HTTPServerService:
  - runs an *http.Server and drains it with Shutdown on cancellation
  - returns listener failures so the supervisor restarts it

DatasetLoaderService:
  - loads the ratings dataset at start-up
  - retries every RetryInterval until the first load succeeds
  - reloads every ReloadInterval when configured; a failed reload keeps
    the previous snapshot
*/
package services
