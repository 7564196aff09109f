package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/rialms/scottspence.me/internal/model"
)

// FileSource reads the query result from a JSON file. Both the page data
// shape ({"graphcmsdata": {"assets": ...}}) and a raw GraphQL response
// ({"data": {"assets": ...}}) are accepted.
type FileSource struct {
	Path  string
	Order Order
}

var _ Source = FileSource{}

func (fs FileSource) Fetch(_ context.Context) (model.PageData, error) {
	var (
		data model.PageData
		file struct {
			model.PageData
			Data *model.Content `json:"data"`
		}
	)

	contents, err := os.ReadFile(fs.Path)
	if err != nil {
		return data, fmt.Errorf("read data file: %w", err)
	}

	err = json.Unmarshal(contents, &file)
	if err != nil {
		return data, fmt.Errorf("unmarshal data file %s: %w", fs.Path, err)
	}

	data = file.PageData
	if file.Data != nil {
		data.GraphCMSData = *file.Data
	}

	SortAssets(data.GraphCMSData.Assets, fs.Order)

	return data, nil
}

// SortAssets sorts assets by creation time in the given order, ties keep
// their relative position.
func SortAssets(assets []model.Asset, order Order) {
	slices.SortStableFunc(assets, func(a, b model.Asset) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if order == OrderAsc {
			return c
		}

		return -c
	})
}
