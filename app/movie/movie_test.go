package movie

import (
	"errors"
	"testing"
)

func TestDecodeKeepsRawBytes(t *testing.T) {
	raw := []byte(`{"id":27205,"title":"Inception","release_date":"2010-07-15","vote_average":8.4,"overview":"Dreams.","poster_path":"/p.jpg","extra":{"k":1}}`)
	it, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if it.ID != 27205 || it.Title != "Inception" || it.Rating != 8.4 || !it.HasPoster() {
		t.Fatalf("item = %+v", it)
	}
	if string(it.Raw) != string(raw) {
		t.Fatalf("raw = %s", it.Raw)
	}
	raw[0] = 'x'
	if it.Raw[0] != '{' {
		t.Fatal("Raw must not alias the input buffer")
	}
}

func TestDecodeOptionalFields(t *testing.T) {
	it, err := Decode([]byte(`{"id":5,"title":"Untitled","vote_average":0,"poster_path":null}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if it.ReleaseDate != "" || it.Overview != "" || it.HasPoster() {
		t.Fatalf("item = %+v", it)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		`{"id":1,"vote_average":1}`,
		`{"id":1,"title":"x"}`,
		`{"title":"x","vote_average":1}`,
		`{"id":null,"title":"x","vote_average":1}`,
		`[1,2]`,
		`not json`,
	} {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%s) err = %v", raw, err)
		}
	}
}
