package boolidx

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]int{
		{},
		{1},
		{1, 2},
		{1, 2, 3, 4, 5, 6, 7, 8, 9},
		{2, 4, 6, 8, 10, 12, 14, 16, 20, 40, 41},
	}
	for _, ids := range cases {
		encoded := Encode(ids)
		decoded := DocIDs(Decode(encoded))
		if len(ids) == 0 {
			if len(decoded) != 0 {
				t.Errorf("Decode(Encode(%v)) = %v, want empty", ids, decoded)
			}
			continue
		}
		if !reflect.DeepEqual(decoded, ids) {
			t.Errorf("Decode(Encode(%v)) = %v, want %v", ids, decoded, ids)
		}
	}
}

func TestEncodeSkipPointerPresenceRule(t *testing.T) {
	for n := 0; n <= 20; n++ {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = i + 1
		}
		encoded := Encode(ids)
		hasSkip := false
		for _, p := range Decode(encoded) {
			if p.HasSkip {
				hasSkip = true
				break
			}
		}
		want := isqrt(n) > 2
		if hasSkip != want {
			t.Errorf("n=%d: Encode contains skip pointer = %v, want %v (floor(sqrt(%d))=%d)", n, hasSkip, want, n, isqrt(n))
		}
	}
}

func TestEncodeSkipPointerInvariants(t *testing.T) {
	ids := make([]int, 50)
	for i := range ids {
		ids[i] = (i + 1) * 2
	}
	list := Decode(Encode(ids))
	for i, p := range list {
		if !p.HasSkip {
			continue
		}
		j := p.Skip
		if j <= i {
			t.Errorf("skip at %d points to %d, want j > i", i, j)
		}
		if j >= len(list) {
			t.Errorf("skip at %d points to %d, out of range (len=%d)", i, j, len(list))
		}
		if list[j].DocID < p.DocID {
			t.Errorf("skip at %d (docID %d) points to %d (docID %d), want docID[j] >= docID[i]", i, p.DocID, j, list[j].DocID)
		}
	}
}

func TestDecodeEmptyLine(t *testing.T) {
	got := Decode("")
	if got == nil || len(got) != 0 {
		t.Errorf("Decode(\"\") = %v, want empty non-nil slice", got)
	}
}

func TestDecodeTrimsTrailingNewline(t *testing.T) {
	got := DocIDs(Decode("1,2,3\n"))
	want := []int{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode with trailing newline = %v, want %v", got, want)
	}
}

func TestDecodeMalformedEntryPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Decode on malformed entry did not panic")
		}
	}()
	Decode("1,x,3")
}

func TestWithSkipsMatchesEncode(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	fromEncode := Decode(Encode(ids))
	fromWithSkips := WithSkips(ids)
	if !reflect.DeepEqual(fromEncode, fromWithSkips) {
		t.Errorf("WithSkips(%v) = %+v, want %+v", ids, fromWithSkips, fromEncode)
	}
}
