// Package config provides the configuration model, loading and file
// watching for the sprout routing engine.
//
// A configuration document names the routing defaults, the ordered list
// of routes, and the logging, observability and server settings:
//
//	routing:
//	  frontController: /index.php
//	  defaultController: pages
//	routes:
//	  - pattern: /profile/:username
//	    components: {controller: users, action: view}
//	includes:
//	  - routes/admin.yaml
//
// # Features
//
//   - YAML loading with ${VAR} and ${VAR:-default} substitution
//   - Include files whose routes are registered first
//   - Validation reporting every offending field at once
//   - File watching with debounce for hot reload
//
// # File Watching
//
//	watcher, err := config.NewWatcher(path, func(cfg *config.Config) {
//	    // build and swap a new route table
//	}, config.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := watcher.Start(ctx); err != nil {
//	    return err
//	}
//	defer watcher.Stop()
package config
