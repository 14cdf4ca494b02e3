package incident

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want SourceType
	}{
		{"youtube with www", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", SourceVideo},
		{"youtube without www", "https://youtube.com/watch?v=abc", SourceVideo},
		{"youtu short link", "https://youtu.be/abc123", SourceVideo},
		{"google drive", "https://drive.google.com/file", SourceVideo},
		{"twitch clips", "https://clips.twitch.tv/SomeClip", SourceVideo},

		{"twitter", "https://twitter.com/user/status/123", SourcePost},
		{"instagram", "https://www.instagram.com/p/abc/", SourcePost},
		{"reddit", "https://www.reddit.com/r/news/comments/x", SourcePost},
		{"mobile twitter", "https://mobile.twitter.com/user/status/1", SourcePost},
		{"v.redd.it", "https://v.redd.it/abcdef", SourcePost},

		{"nlg-la court document", "https://nlg-la.org/case123", SourceCourtDocument},

		{"i.ibb image host", "https://i.ibb.co/abc/photo.jpg", SourceImage},

		{"dover police report", "https://doverpolice.delaware.gov/2020/06/01/release", SourcePoliceReport},

		{"unknown host", "https://example.com/x", SourceArticle},
		{"long news host", "https://www.washingtonpost.com/national/article", SourceArticle},
		{"empty string", "", SourceArticle},
		{"no scheme", "youtube.com/watch", SourceArticle},
		{"http not https", "http://www.youtube.com/watch", SourceArticle},
		{"bare scheme", "https://", SourceArticle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tt.url)
			if got.SrcType != tt.want {
				t.Errorf("Classify(%q).SrcType = %q, want %q", tt.url, got.SrcType, tt.want)
			}
			if got.SrcURL != tt.url {
				t.Errorf("Classify(%q).SrcURL = %q, want the URL unmodified", tt.url, got.SrcURL)
			}
		})
	}
}

func TestClassify_TokenShortening(t *testing.T) {
	t.Parallel()

	// hostToken drives the lookup, so pin its shortening behavior directly.
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch", "youtube"},
		{"https://nlg-la.org/case123", "nlg-la"},
		{"https://drive.google.com/file", "drive"},
		{"https://i.ibb.co/abc", "i"},
		{"https://v.redd.it/abc", "v"},
		{"https://doverpolice.delaware.gov/x", "doverpolice"},
		{"", ""},
		{"ftp://youtube.com", ""},
	}

	for _, tt := range tests {
		if got := hostToken(tt.url); got != tt.want {
			t.Errorf("hostToken(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
