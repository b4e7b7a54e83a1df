package query_test

import (
	"reflect"
	"testing"

	"go-blog-listing/internal/model"
	"go-blog-listing/internal/poststore"
	"go-blog-listing/internal/query"
)

func ids(posts []model.Post) []int64 {
	out := []int64{}
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func sample() []model.Post {
	return append(poststore.DefaultPosts(),
		model.Post{ID: 4, Title: "Go tips", Content: "channels", Tags: []string{"go", "Travel"}, Category: "Tech"},
		model.Post{ID: 5, Title: "Untitled", Content: "", Tags: []string{}},
	)
}

func TestSearch_EmptyReturnsAllInOrder(t *testing.T) {
	c := sample()
	if got := ids(query.Search(c, "", "")); !reflect.DeepEqual(got, []int64{1, 2, 3, 4, 5}) {
		t.Fatalf("got=%v", got)
	}
}

func TestSearch_SeedTechnology(t *testing.T) {
	got := query.Search(poststore.DefaultPosts(), "technology", "")
	if len(got) != 1 || got[0].Title != "Technology and Innovation" {
		t.Fatalf("got=%v", ids(got))
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	c := sample()
	up := query.Search(c, "NATURE", "")
	low := query.Search(c, "nature", "")
	if !reflect.DeepEqual(up, low) || len(low) != 1 || low[0].ID != 1 {
		t.Fatalf("upper=%v lower=%v", ids(up), ids(low))
	}
}

func TestSearch_MatchesTagsAndCategoryAnd(t *testing.T) {
	c := sample()
	// "photo" only appears in tags of 1 and 2 (and content of 2)
	if got := ids(query.Search(c, "photo", "")); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("photo got=%v", got)
	}
	if got := ids(query.Search(c, "travel", "Tech")); !reflect.DeepEqual(got, []int64{4}) {
		t.Fatalf("travel+Tech got=%v", got)
	}
	if got := ids(query.Search(c, "", "Travel")); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("category only got=%v", got)
	}
	if got := query.Search(c, "zzz", ""); got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil, got=%#v", got)
	}
}

func TestByTag_ExactCaseSensitive(t *testing.T) {
	c := sample()
	if got := ids(query.ByTag(c, "Travel")); !reflect.DeepEqual(got, []int64{1, 2, 4}) {
		t.Fatalf("Travel got=%v", got)
	}
	if got := ids(query.ByTag(c, "travel")); len(got) != 0 {
		t.Fatalf("travel (lower) got=%v", got)
	}
	if got := ids(query.ByTag(c, "Photo")); len(got) != 0 {
		t.Fatalf("substring must not match, got=%v", got)
	}
}

func TestByTagByCategory_NoFalsePositivesOrNegatives(t *testing.T) {
	c := sample()
	for _, tag := range query.DistinctTags(c) {
		got := map[int64]bool{}
		for _, p := range query.ByTag(c, tag) {
			got[p.ID] = true
		}
		for _, p := range c {
			if p.HasTag(tag) != got[p.ID] {
				t.Fatalf("tag %q post %d: has=%v returned=%v", tag, p.ID, p.HasTag(tag), got[p.ID])
			}
		}
	}
	for _, cat := range append(query.DistinctCategories(c), "", "Nope") {
		got := map[int64]bool{}
		for _, p := range query.ByCategory(c, cat) {
			got[p.ID] = true
		}
		for _, p := range c {
			if (p.Category == cat) != got[p.ID] {
				t.Fatalf("category %q post %d mismatch", cat, p.ID)
			}
		}
	}
}

func TestDistinct_FirstSeenNoDuplicates(t *testing.T) {
	c := sample()
	if got := query.DistinctCategories(c); !reflect.DeepEqual(got, []string{"Travel", "Technology", "Tech"}) {
		t.Fatalf("categories=%v", got)
	}
	want := []string{"Nature", "Travel", "Photography", "City", "Technology", "Innovation", "Future", "go"}
	if got := query.DistinctTags(c); !reflect.DeepEqual(got, want) {
		t.Fatalf("tags=%v", got)
	}
	if got := query.DistinctAuthors(c); !reflect.DeepEqual(got, []string{"You"}) {
		t.Fatalf("authors=%v", got)
	}
}

func TestApply(t *testing.T) {
	c := sample()
	if got := ids(query.Apply(c, query.Criteria{Term: "nature", Tag: "City"})); !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("tag wins got=%v", got)
	}
	if got := ids(query.Apply(c, query.Criteria{Category: "Technology"})); !reflect.DeepEqual(got, []int64{3}) {
		t.Fatalf("category got=%v", got)
	}
}

func TestFilters_DoNotMutateInput(t *testing.T) {
	c := sample()
	before := poststore.DefaultPosts()
	res := query.Search(c, "", "")
	res[0].Tags[0] = "changed"
	res[0].Title = "changed"
	if !reflect.DeepEqual(c[:3], before) {
		t.Fatalf("input mutated")
	}
}
