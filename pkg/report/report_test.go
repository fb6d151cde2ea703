package report

import (
	"maps"
	"math/rand"
	"reflect"
	"testing"
)

func TestRowSet(t *testing.T) {
	rs := New("Link", "Title", "Editor, author")
	rs.Add("https://docs.python.org/3/whatsnew/3.12.html", "What's New In Python 3.12", "Editor: Adam Turner")
	rs.Add("https://docs.python.org/3/whatsnew/3.11.html", "What's New In Python 3.11", "Editor: Pablo Galindo Salgado")

	if rs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rs.Len())
	}

	records := rs.Records()
	if len(records) != 3 {
		t.Fatalf("Records() = %d rows, want 3", len(records))
	}
	if !reflect.DeepEqual(records[0], []string{"Link", "Title", "Editor, author"}) {
		t.Errorf("Records()[0] = %v, want header", records[0])
	}
	for i, r := range records {
		if len(r) != len(rs.Header) {
			t.Errorf("record %d has %d fields, header has %d", i, len(r), len(rs.Header))
		}
	}
}

func TestRowSetNilLen(t *testing.T) {
	var rs *RowSet
	if rs.Len() != 0 {
		t.Error("nil RowSet should have length 0")
	}
}

func TestTallyIncrement(t *testing.T) {
	var tally Tally
	tally.Increment("Final")
	tally.Increment("Draft")
	tally.Increment("Final")

	if got := tally.Count("Final"); got != 2 {
		t.Errorf("Count(Final) = %d, want 2", got)
	}
	if got := tally.Count("Draft"); got != 1 {
		t.Errorf("Count(Draft) = %d, want 1", got)
	}
	if got := tally.Count("Rejected"); got != 0 {
		t.Errorf("Count(Rejected) = %d, want 0", got)
	}
	if tally.Len() != 2 || tally.Total() != 3 {
		t.Errorf("Len() = %d, Total() = %d; want 2, 3", tally.Len(), tally.Total())
	}
}

func TestTallyOrderIndependent(t *testing.T) {
	statuses := []string{"Final", "Draft", "Final", "Active", "Rejected", "Final", "Draft", "Withdrawn"}

	var want Tally
	for _, s := range statuses {
		want.Increment(s)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]string(nil), statuses...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		var got Tally
		for _, s := range shuffled {
			got.Increment(s)
		}
		if !maps.Equal(got.Counts(), want.Counts()) {
			t.Fatalf("tally of %v = %v, want %v", shuffled, got.Counts(), want.Counts())
		}
	}
}

func TestTallyCountsIsCopy(t *testing.T) {
	var tally Tally
	tally.Increment("Final")
	c := tally.Counts()
	c["Final"] = 99
	if tally.Count("Final") != 1 {
		t.Error("Counts() should return a copy")
	}
}

func TestTallyRowSet(t *testing.T) {
	var tally Tally
	tally.Increment("Final")
	tally.Increment("Draft")
	tally.Increment("Final")

	rs := tally.RowSet("Status", "Count")
	want := [][]string{{"Status", "Count"}, {"Final", "2"}, {"Draft", "1"}}
	if !reflect.DeepEqual(rs.Records(), want) {
		t.Errorf("RowSet() = %v, want %v", rs.Records(), want)
	}
}
