package config

import (
	"fmt"
	"slices"
)

// Client selects the HTTP client binding the generated code targets.
type Client string

const (
	ClientAxios Client = "@hey-api/client-axios"
	ClientFetch Client = "@hey-api/client-fetch"
	ClientNext  Client = "@hey-api/client-next"
	ClientNuxt  Client = "@hey-api/client-nuxt"

	ClientLegacyAngular Client = "legacy/angular"
	ClientLegacyAxios   Client = "legacy/axios"
	ClientLegacyFetch   Client = "legacy/fetch"
	ClientLegacyNode    Client = "legacy/node"
	ClientLegacyXHR     Client = "legacy/xhr"
)

var clients = []Client{
	ClientAxios,
	ClientFetch,
	ClientNext,
	ClientNuxt,
	ClientLegacyAngular,
	ClientLegacyAxios,
	ClientLegacyFetch,
	ClientLegacyNode,
	ClientLegacyXHR,
}

// Clients returns every known client in a stable order.
func Clients() []Client {
	return slices.Clone(clients)
}

func (c Client) Valid() bool {
	return slices.Contains(clients, c)
}

func (c Client) String() string {
	return string(c)
}

// ParseClient returns ErrUnknownClient for anything not listed in Clients.
func ParseClient(s string) (Client, error) {
	c := Client(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownClient, s)
	}
	return c, nil
}
