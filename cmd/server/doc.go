// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

/*
Package main is the entry point for the Filmrec server.

Filmrec recommends films from three rated selections using six strategies
(Item-User, User-Item, NMF, SVD, KNN and Content) over a MovieLens-style
ratings dataset.

# Application Architecture

	RootSupervisor ("filmrec")
	├── DataSupervisor ("data-layer")
	│   └── DatasetLoaderService (CSV file or MongoDB collection)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (chi router)

Initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Recommendation engine with every strategy registered
 4. Dataset store behind a circuit breaker
 5. Supervisor tree: suture v4 with sutureslog events
 6. HTTP server: chi router with request ID, access log, CORS, rate limits, metrics

# Configuration

Priority: environment variables > config file > defaults

	HTTP_PORT=8080
	LOG_LEVEL=info                 # trace, debug, info, warn, error
	LOG_FORMAT=json                # json or console

	DATASET_SOURCE=csv             # csv or mongo
	DATASET_PATH=data/ratings.csv  # userId,title,rating,genres
	DATASET_RELOAD_INTERVAL=0      # e.g. 1h; 0 loads once

	MONGO_URI=mongodb://localhost:27017
	MONGO_DATABASE=filmrec
	MONGO_COLLECTION=ratings

	RECOMMEND_TOP_K=5
	RECOMMEND_RANK=5
	RECOMMEND_STRATEGIES=item_user,user_item,nmf,svd,knn,content
	RECOMMEND_SEED=0

CONFIG_PATH points at a YAML file with the same keys in sections (server,
api, security, logging, dataset, recommend).

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
HTTP_SHUTDOWN_TIMEOUT and the process exits once every service has stopped.
*/
package main
