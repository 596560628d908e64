// Package feature defines tenant features and resolves their values.
//
// A feature has a default value. An edition may override the default for
// every tenant of that edition, and a tenant may override the edition value.
// ValueStore resolves the override chain, caching one TenantCacheItem per
// tenant in the TenantCacheName named cache.
//
// Definitions are usually loaded from YAML:
//
//	features:
//	  - name: App.MaxUserCount
//	    default: "10"
//	    display_name: Maximum user count
//	  - name: App.ChatEnabled
//	    default: "false"
//
//	defs, err := feature.LoadDefinitionsFile(os.DirFS("config"), "features.yaml")
//	if err != nil {
//		return err
//	}
//	manager, err := feature.NewManager(defs...)
//
// Boolean features use the values "true" and "false".
package feature
