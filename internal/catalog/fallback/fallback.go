// Package fallback ships the product list served when the remote catalog
// cannot be reached.
package fallback

import (
	_ "embed"
	"fmt"

	"tubby/internal/catalog"
)

//go:embed products.json
var productsJSON []byte

// Products decodes the bundled dataset. It goes through the same shape
// checks as a remote response.
func Products() ([]catalog.RemoteProduct, error) {
	products, err := catalog.Decode(productsJSON)
	if err != nil {
		return nil, fmt.Errorf("bundled catalog: %w", err)
	}
	return products, nil
}
