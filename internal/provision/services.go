package provision

import "sort"

// ServiceInfo describes one service of the fixed stack.
type ServiceInfo struct {
	Name        string
	Description string
	Ports       []string
	Role        string
}

// ServiceCatalog is the stack this tool provisions. It is informational:
// the compose manifest remains the source of truth for what actually runs,
// the catalog feeds usage text, the firewall allow-list, and the post-launch
// summary.
var ServiceCatalog = map[string]ServiceInfo{
	"swag": {
		Name:        "swag",
		Description: "Reverse proxy with automatic TLS and DuckDNS updates",
		Ports:       []string{"80", "443"},
		Role:        "Edge",
	},
	"nextcloud": {
		Name:        "nextcloud",
		Description: "Cloud storage and sync",
		Ports:       []string{},
		Role:        "Application",
	},
	"jellyfin": {
		Name:        "jellyfin",
		Description: "Media server",
		Ports:       []string{"8096"},
		Role:        "Application",
	},
	"mariadb": {
		Name:        "mariadb",
		Description: "Database for Nextcloud",
		Ports:       []string{},
		Role:        "Data",
	},
	"redis": {
		Name:        "redis",
		Description: "File-locking and session cache for Nextcloud",
		Ports:       []string{},
		Role:        "Data",
	},
}

// SortedServiceNames returns the catalog names in stable order.
func SortedServiceNames() []string {
	names := make([]string, 0, len(ServiceCatalog))
	for name := range ServiceCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
