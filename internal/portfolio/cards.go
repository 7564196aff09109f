package portfolio

import (
	"errors"
	"fmt"

	"github.com/rialms/scottspence.me/internal/model"
)

// ErrMissingProject is returned when an asset has no associated project.
var ErrMissingProject = errors.New("asset has no associated project")

// PlaceholderName is the card name used by the placeholder policy.
const PlaceholderName = "Untitled project"

// MissingProjectPolicy decides what happens to assets without a project.
type MissingProjectPolicy string

const (
	MissingProjectFail        MissingProjectPolicy = "fail"
	MissingProjectSkip        MissingProjectPolicy = "skip"
	MissingProjectPlaceholder MissingProjectPolicy = "placeholder"
)

// ParseMissingProjectPolicy parses a policy name, the empty string selects
// MissingProjectFail.
func ParseMissingProjectPolicy(s string) (MissingProjectPolicy, error) {
	switch MissingProjectPolicy(s) {
	case "", MissingProjectFail:
		return MissingProjectFail, nil
	case MissingProjectSkip:
		return MissingProjectSkip, nil
	case MissingProjectPlaceholder:
		return MissingProjectPlaceholder, nil
	}

	return "", fmt.Errorf("unknown missing project policy %q", s)
}

// Card holds the props of one project card.
type Card struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	Github string `json:"github"`
	Demo   string `json:"demo"`
	Image  string `json:"image"`
}

// NewCard maps an asset and its first project to card props. Fields are
// copied as is.
func NewCard(asset model.Asset) (Card, error) {
	if len(asset.ProjectImageProject) == 0 {
		return Card{}, fmt.Errorf("asset %q: %w", asset.ID, ErrMissingProject)
	}

	project := asset.ProjectImageProject[0]

	return Card{
		Key:    asset.ID,
		Name:   project.ProjectName,
		Desc:   project.ProjectDescription,
		Github: project.GithubRepo,
		Demo:   project.DemoLink,
		Image:  asset.URL,
	}, nil
}

// MapCards maps assets to cards in iteration order.
func MapCards(assets []model.Asset, policy MissingProjectPolicy) ([]Card, error) {
	cards := make([]Card, 0, len(assets))

	for _, asset := range assets {
		card, err := NewCard(asset)

		switch {
		case err == nil:
		case policy == MissingProjectSkip:
			continue
		case policy == MissingProjectPlaceholder:
			card = Card{
				Key:   asset.ID,
				Name:  PlaceholderName,
				Image: asset.URL,
			}
		default:
			return nil, err
		}

		cards = append(cards, card)
	}

	return cards, nil
}
