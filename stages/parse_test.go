package stages

import "testing"

func TestExtractJSONBlock(t *testing.T) {
	cases := []struct {
		name          string
		text          string
		wantPayload   string
		wantRemainder string
		wantFound     bool
	}{
		{
			name:          "block between prose",
			text:          "prose text\n\n```json\n[1, 2]\n```\n\nmore prose",
			wantPayload:   "[1, 2]",
			wantRemainder: "prose text\n\nmore prose",
			wantFound:     true,
		},
		{
			name:          "first of two blocks wins",
			text:          "```json\n{\"a\": 1}\n```\n```json\n{\"b\": 2}\n```",
			wantPayload:   "{\"a\": 1}",
			wantRemainder: "```json\n{\"b\": 2}\n```",
			wantFound:     true,
		},
		{
			name:          "no block",
			text:          "plain prose only",
			wantRemainder: "plain prose only",
			wantFound:     false,
		},
		{
			name:          "untagged fence ignored",
			text:          "```\n[1]\n```",
			wantRemainder: "```\n[1]\n```",
			wantFound:     false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, remainder, found := ExtractJSONBlock(tc.text)
			if found != tc.wantFound {
				t.Fatalf("found = %v, want %v", found, tc.wantFound)
			}
			if payload != tc.wantPayload {
				t.Errorf("payload = %q, want %q", payload, tc.wantPayload)
			}
			if remainder != tc.wantRemainder {
				t.Errorf("remainder = %q, want %q", remainder, tc.wantRemainder)
			}
		})
	}
}

func TestExtractMermaidBlock(t *testing.T) {
	text := "# Plan\n\n```mermaid\nflowchart TD\n  A-->B\n```\n\nDetails."
	if got := ExtractMermaidBlock(text); got != "flowchart TD\n  A-->B" {
		t.Errorf("ExtractMermaidBlock() = %q", got)
	}
	if got := ExtractMermaidBlock("no diagram here"); got != "" {
		t.Errorf("ExtractMermaidBlock() = %q, want empty", got)
	}
}

func TestParseFilterIndices(t *testing.T) {
	cases := []struct {
		name   string
		reply  string
		count  int
		want   []int
		wantOK bool
	}{
		{name: "comma separated", reply: "1, 3", count: 4, want: []int{0, 2}, wantOK: true},
		{name: "space separated", reply: "2 4", count: 4, want: []int{1, 3}, wantOK: true},
		{name: "order follows reply", reply: "3, 1", count: 4, want: []int{2, 0}, wantOK: true},
		{name: "duplicates collapse", reply: "2, 2, 2", count: 4, want: []int{1}, wantOK: true},
		{name: "out of range dropped", reply: "1, 9", count: 4, want: []int{0}, wantOK: true},
		{name: "empty keeps all", reply: "", count: 4, wantOK: false},
		{name: "garbage keeps all", reply: "keep the good ones", count: 4, wantOK: false},
		{name: "all out of range keeps all", reply: "9, 10", count: 4, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseFilterIndices(tc.reply, tc.count)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("indices = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("indices = %v, want %v", got, tc.want)
					break
				}
			}
		})
	}
}
