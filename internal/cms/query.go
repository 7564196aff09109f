package cms

import (
	"fmt"
	"strings"
)

// Order is the creation time order assets are requested in.
type Order string

const (
	OrderDesc Order = "desc"
	OrderAsc  Order = "asc"
)

// ParseOrder parses an order name, the empty string selects OrderDesc.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case "", OrderDesc:
		return OrderDesc, nil
	case OrderAsc:
		return OrderAsc, nil
	}

	return "", fmt.Errorf("unknown order %q, use asc or desc", s)
}

func (o Order) orderBy() string {
	if o == OrderAsc {
		return "createdAt_ASC"
	}

	return "createdAt_DESC"
}

const assetQuery = `{
  assets(orderBy: %s) {
    id
    createdAt
    updatedAt
    mimeType
    url
    size
    width
    height
    status
    handle
    fileName
    projectImageProject {
      id
      createdAt
      updatedAt
      status
      projectName
      projectDescription
      githubRepo
      demoLink
    }
  }
}`

// AssetQuery returns the GraphQL query for all assets with their projects.
func AssetQuery(order Order) string {
	return fmt.Sprintf(assetQuery, order.orderBy())
}
