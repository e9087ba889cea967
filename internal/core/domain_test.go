package core

import "testing"

func TestJobRecordSanitized(t *testing.T) {
	r := JobRecord{
		Title:        "  <b>Senior</b> Engineer ",
		Organization: "Acme &amp; Co<script>alert(1)</script>",
		Location:     "Remote",
		PublishedAt:  " 2025-01-05 ",
	}
	got := r.Sanitized()
	if got.Title != "Senior Engineer" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Organization != "Acme & Co" {
		t.Errorf("organization = %q", got.Organization)
	}
	if got.Location != "Remote" {
		t.Errorf("location = %q", got.Location)
	}
	if got.PublishedAt != "2025-01-05" {
		t.Errorf("publishedAt = %q", got.PublishedAt)
	}
}

func TestSanitizeAllKeepsOrder(t *testing.T) {
	in := []JobRecord{{Title: "a"}, {Title: "<i>b</i>"}, {Title: "c"}}
	out := SanitizeAll(in)
	if len(out) != 3 || out[0].Title != "a" || out[1].Title != "b" || out[2].Title != "c" {
		t.Fatalf("unexpected: %+v", out)
	}
	if in[1].Title != "<i>b</i>" {
		t.Fatalf("input mutated")
	}
}

func TestViewportClassString(t *testing.T) {
	if Wide.String() != "wide" || Compact.String() != "compact" {
		t.Fatalf("got %s/%s", Wide, Compact)
	}
}
