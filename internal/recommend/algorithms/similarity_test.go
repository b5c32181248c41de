// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package algorithms

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/filmrec/internal/ratings"
	"github.com/tomtom215/filmrec/internal/recommend"
)

func TestItemUser_Recommend(t *testing.T) {
	in := buildInput(t, testBaseline(), defaultSelections())

	items, err := NewItemUser().Recommend(context.Background(), in)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	checkContract(t, items, "Alien", 5)

	want := []string{"Aliens", "Predator", "Blade Runner", "Heat", "Up"}
	if got := titlesOf(items); !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}

	for i := 1; i < len(items); i++ {
		if items[i].Score > items[i-1].Score {
			t.Errorf("scores not descending at %d: %v > %v", i, items[i].Score, items[i-1].Score)
		}
	}
	// Aliens: (0,5,5,0,0,0)·(5,5,4,0,0,0) / (|Aliens|·|Alien|)
	wantScore := 45 / (math.Sqrt(50) * math.Sqrt(66))
	if math.Abs(items[0].Score-wantScore) > 1e-9 {
		t.Errorf("Aliens score = %v, want %v", items[0].Score, wantScore)
	}
}

func TestItemUser_TwoTitles(t *testing.T) {
	base := ratings.NewTable([]ratings.Rating{
		rating("u1", "Alien", 5),
		rating("u1", "Aliens", 4),
	})
	sels := []recommend.Selection{
		{Title: "Alien", Rating: 5},
		{Title: "Aliens", Rating: 3},
		{Title: "Alien", Rating: 4},
	}
	in := buildInput(t, base, sels)

	items, err := NewItemUser().Recommend(context.Background(), in)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := titlesOf(items); !reflect.DeepEqual(got, []string{"Aliens"}) {
		t.Errorf("titles = %v, want [Aliens]", got)
	}
}

func TestItemUser_CanceledContext(t *testing.T) {
	in := buildInput(t, testBaseline(), defaultSelections())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewItemUser().Recommend(ctx, in); !errors.Is(err, context.Canceled) {
		t.Errorf("Recommend() error = %v, want context.Canceled", err)
	}
}

func TestUserItem_Recommend(t *testing.T) {
	in := buildInput(t, testBaseline(), defaultSelections())

	items, err := NewUserItem().Recommend(context.Background(), in)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	checkContract(t, items, "Alien", 5)

	// u1 is the nearest user; Alien and Heat are already rated by the new user.
	want := []recommend.ScoredTitle{
		{Title: "Aliens", Score: 5},
		{Title: "Predator", Score: 4},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("items = %v, want %v", items, want)
	}
}

func TestUserItem_NoNeighbor(t *testing.T) {
	sels := []recommend.Selection{
		{Title: "Unreleased A", Rating: 4, Genres: "Drama"},
		{Title: "Unreleased B", Rating: 3, Genres: "Drama"},
		{Title: "Unreleased C", Rating: 2, Genres: "Drama"},
	}
	in := buildInput(t, testBaseline(), sels)

	_, err := NewUserItem().Recommend(context.Background(), in)
	if !errors.Is(err, recommend.ErrNoNeighborFound) {
		t.Errorf("Recommend() error = %v, want ErrNoNeighborFound", err)
	}
}

func TestUserItem_TieGoesToFirstUser(t *testing.T) {
	base := ratings.NewTable([]ratings.Rating{
		rating("b", "Alien", 5),
		rating("b", "Cars", 4),
		rating("a", "Alien", 5),
		rating("a", "Heat", 4),
	})
	sels := []recommend.Selection{
		{Title: "Alien", Rating: 5},
		{Title: "Alien", Rating: 5},
		{Title: "Alien", Rating: 5},
	}
	in := buildInput(t, base, sels)

	items, err := NewUserItem().Recommend(context.Background(), in)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	// Users a and b are equally similar and "a" sorts first.
	if got := titlesOf(items); !reflect.DeepEqual(got, []string{"Heat"}) {
		t.Errorf("titles = %v, want [Heat]", got)
	}
}

func TestKNN_Recommend(t *testing.T) {
	in := buildInput(t, testBaseline(), defaultSelections())

	items, err := NewKNN().Recommend(context.Background(), in)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	checkContract(t, items, "Alien", 5)

	want := []string{"Aliens", "Predator", "Blade Runner", "Heat", "Up"}
	if got := titlesOf(items); !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
}

func TestKNearest(t *testing.T) {
	in := buildInput(t, testBaseline(), defaultSelections())
	ai, _ := in.TitleUser.RowIndex("Alien")

	tests := []struct {
		name    string
		k       int
		wantLen int
	}{
		{name: "k larger than rows", k: 100, wantLen: 10},
		{name: "k of six", k: 6, wantLen: 6},
		{name: "k of one", k: 1, wantLen: 1},
		{name: "k of zero", k: 0, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KNearest(in.TitleUser.Matrix(), ai, tt.k)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			if got[0].Index != ai || got[0].Distance != 0 {
				t.Errorf("first neighbour = %+v, want query row %d", got[0], ai)
			}
			for i := 2; i < len(got); i++ {
				if got[i].Distance < got[i-1].Distance {
					t.Errorf("distances not ascending at %d", i)
				}
			}
		})
	}
}
