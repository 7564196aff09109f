package portfolio_test

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rialms/scottspence.me/internal/model"
	"github.com/rialms/scottspence.me/internal/portfolio"
)

func testAssets(n int) []model.Asset {
	assets := make([]model.Asset, n)
	base := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := range assets {
		assets[i] = model.Asset{
			ID:        fmt.Sprintf("asset-%d", i),
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
			MimeType:  "image/png",
			URL:       fmt.Sprintf("https://media.example.com/%d.png", i),
			FileName:  fmt.Sprintf("%d.png", i),
			ProjectImageProject: []model.Project{{
				ID:                 fmt.Sprintf("project-%d", i),
				ProjectName:        fmt.Sprintf("Project %d", i),
				ProjectDescription: fmt.Sprintf("Does **thing** %d", i),
				GithubRepo:         fmt.Sprintf("https://github.com/example/p%d", i),
				DemoLink:           fmt.Sprintf("https://p%d.example.com", i),
			}},
		}
	}

	return assets
}

func TestMapCardsKeyedByAsset(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		t.Run(fmt.Sprintf("%d assets", n), func(t *testing.T) {
			assets := testAssets(n)

			cards, err := portfolio.MapCards(assets, portfolio.MissingProjectFail)
			if err != nil {
				t.Fatalf("map cards: %v", err)
			}

			if len(cards) != n {
				t.Fatalf("got %d cards, want %d", len(cards), n)
			}

			for i := range cards {
				if cards[i].Key != assets[i].ID {
					t.Errorf("card %d key = %q, want %q", i, cards[i].Key, assets[i].ID)
				}
			}
		})
	}
}

func TestNewCardCopiesFields(t *testing.T) {
	asset := testAssets(1)[0]

	card, err := portfolio.NewCard(asset)
	if err != nil {
		t.Fatalf("new card: %v", err)
	}

	project := asset.ProjectImageProject[0]

	want := portfolio.Card{
		Key:    asset.ID,
		Name:   project.ProjectName,
		Desc:   project.ProjectDescription,
		Github: project.GithubRepo,
		Demo:   project.DemoLink,
		Image:  asset.URL,
	}

	if diff := cmp.Diff(want, card); diff != "" {
		t.Errorf("NewCard() mismatch (-want +got):\n%s", diff)
	}
}

func TestMapCardsMissingProject(t *testing.T) {
	assets := testAssets(3)
	assets[1].ProjectImageProject = []model.Project{}

	_, err := portfolio.MapCards(assets, portfolio.MissingProjectFail)
	if !errors.Is(err, portfolio.ErrMissingProject) {
		t.Fatalf("expected ErrMissingProject, got %v", err)
	}

	skipped, err := portfolio.MapCards(assets, portfolio.MissingProjectSkip)
	if err != nil {
		t.Fatalf("map cards with skip: %v", err)
	}

	if diff := cmp.Diff([]string{"asset-0", "asset-2"}, cardKeys(skipped)); diff != "" {
		t.Errorf("skip policy mismatch (-want +got):\n%s", diff)
	}

	placeheld, err := portfolio.MapCards(assets, portfolio.MissingProjectPlaceholder)
	if err != nil {
		t.Fatalf("map cards with placeholder: %v", err)
	}

	wantPlaceholder := portfolio.Card{
		Key:   "asset-1",
		Name:  portfolio.PlaceholderName,
		Image: assets[1].URL,
	}

	if diff := cmp.Diff(wantPlaceholder, placeheld[1]); diff != "" {
		t.Errorf("placeholder card mismatch (-want +got):\n%s", diff)
	}
}

func TestMapCardsOrderOnly(t *testing.T) {
	desc := testAssets(5)
	asc := slices.Clone(desc)
	slices.Reverse(asc)

	descCards, err := portfolio.MapCards(desc, portfolio.MissingProjectFail)
	if err != nil {
		t.Fatal(err)
	}

	ascCards, err := portfolio.MapCards(asc, portfolio.MissingProjectFail)
	if err != nil {
		t.Fatal(err)
	}

	slices.Reverse(ascCards)

	if diff := cmp.Diff(descCards, ascCards); diff != "" {
		t.Errorf("cards differ beyond order (-desc +asc):\n%s", diff)
	}
}

func TestParseMissingProjectPolicy(t *testing.T) {
	cases := map[string]portfolio.MissingProjectPolicy{
		"":            portfolio.MissingProjectFail,
		"fail":        portfolio.MissingProjectFail,
		"skip":        portfolio.MissingProjectSkip,
		"placeholder": portfolio.MissingProjectPlaceholder,
	}

	for in, want := range cases {
		got, err := portfolio.ParseMissingProjectPolicy(in)
		if err != nil {
			t.Errorf("parse %q: %v", in, err)
		}

		if got != want {
			t.Errorf("parse %q = %q, want %q", in, got, want)
		}
	}

	if _, err := portfolio.ParseMissingProjectPolicy("ignore"); err == nil {
		t.Error("expected an error for an unknown policy")
	}
}

func cardKeys(cards []portfolio.Card) []string {
	keys := make([]string, len(cards))
	for i := range cards {
		keys[i] = cards[i].Key
	}

	return keys
}
