package render

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m3rciful/moviebot/app/movie"

	tele "gopkg.in/telebot.v4"
)

type sent struct {
	kind, text, photo string
	markup            *tele.ReplyMarkup
}

type fakeOut struct{ msgs []sent }

func (f *fakeOut) SendText(_ context.Context, _ int64, text string, m *tele.ReplyMarkup) error {
	f.msgs = append(f.msgs, sent{kind: "text", text: text, markup: m})
	return nil
}

func (f *fakeOut) SendPhoto(_ context.Context, _ int64, photo, caption string, m *tele.ReplyMarkup) error {
	f.msgs = append(f.msgs, sent{kind: "photo", text: caption, photo: photo, markup: m})
	return nil
}

func (f *fakeOut) Answer(context.Context, string, string) error { return nil }

func TestYear(t *testing.T) {
	cases := map[string]string{
		"2010-07-15": "2010",
		"1999":       "1999",
		"2001-13":    "2001",
		"":           UnknownYear,
		"soon":       UnknownYear,
	}
	for in, want := range cases {
		if got := Year(in); got != want {
			t.Fatalf("Year(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormat(t *testing.T) {
	r := NewResponder("")
	got := r.Format(movie.Item{Title: "Tom & Jerry", ReleaseDate: "2021-02-11", Rating: 7.26, Overview: "<cat> chases mouse"})
	want := "🎬 <b>Tom &amp; Jerry</b>\n📅 Year: 2021\n⭐ Rating: 7.26\n📝 &lt;cat&gt; chases mouse"
	if got != want {
		t.Fatalf("Format =\n%q\nwant\n%q", got, want)
	}
	for rating, want := range map[float64]string{8.369: "Rating: 8.369\n", 8: "Rating: 8\n", 0: "Rating: 0\n"} {
		if got := r.Format(movie.Item{Title: "X", Rating: rating}); !strings.Contains(got, want) {
			t.Fatalf("rating %v rendered as %q", rating, got)
		}
	}
	if got := r.Format(movie.Item{Title: "X"}); !strings.Contains(got, UnknownYear) || !strings.Contains(got, noOverview) {
		t.Fatalf("degraded format = %q", got)
	}
}

func TestButtons(t *testing.T) {
	r := NewResponder("")
	m := r.Buttons("U1", 7)
	if m == nil || len(m.InlineKeyboard) != 1 || len(m.InlineKeyboard[0]) != 2 {
		t.Fatalf("markup = %+v", m)
	}
	row := m.InlineKeyboard[0]
	if row[0].Data != "movie_details:U1:7" || row[1].Data != "movie_save:U1:7" {
		t.Fatalf("data = %q / %q", row[0].Data, row[1].Data)
	}
	if r.Buttons(strings.Repeat("u", 60), 7) != nil {
		t.Fatal("oversized payload must yield no buttons")
	}
}

func TestSendPhotoVsText(t *testing.T) {
	r := NewResponder("https://img.example.org/w500/")
	out := &fakeOut{}
	withPoster := movie.Item{ID: 1, Title: "A", Rating: 1, PosterPath: "/a.jpg"}
	noPoster := movie.Item{ID: 2, Title: "B", Rating: 2}

	if err := r.Send(context.Background(), out, 1, withPoster, r.Format(withPoster), r.Buttons("U", 1)); err != nil {
		t.Fatal(err)
	}
	if err := r.Send(context.Background(), out, 1, noPoster, r.Format(noPoster), nil); err != nil {
		t.Fatal(err)
	}
	if out.msgs[0].kind != "photo" || out.msgs[0].photo != "https://img.example.org/w500/a.jpg" || out.msgs[0].markup == nil {
		t.Fatalf("photo msg = %+v", out.msgs[0])
	}
	if out.msgs[1].kind != "text" || out.msgs[1].markup != nil {
		t.Fatalf("text msg = %+v", out.msgs[1])
	}
}

func TestSendTruncatesLongCaption(t *testing.T) {
	r := NewResponder("")
	it := movie.Item{Title: "Long", Rating: 5, PosterPath: "/l.jpg", Overview: strings.Repeat("word ", 600)}
	out := &fakeOut{}
	if err := r.Send(context.Background(), out, 1, it, r.Format(it), nil); err != nil {
		t.Fatal(err)
	}
	caption := out.msgs[0].text
	if n := utf8.RuneCountInString(caption); n > CaptionLimit {
		t.Fatalf("caption runes = %d", n)
	}
	if !strings.HasPrefix(caption, "🎬 <b>Long</b>") || !strings.HasSuffix(caption, "…") {
		t.Fatalf("caption = %q", caption)
	}
}
