package logging

import "testing"

func TestMatchModule(t *testing.T) {
	cases := []struct {
		name     string
		patterns []string
		module   string
		want     bool
	}{
		{name: "no focus selects all", module: commitsModule, want: true},
		{name: "exact", patterns: []string{"workflow.commits"}, module: commitsModule, want: true},
		{name: "exact miss", patterns: []string{"workflow.commits"}, module: localesModule, want: false},
		{name: "subtree root", patterns: []string{"workflow.*"}, module: rootModule, want: true},
		{name: "subtree child", patterns: []string{"workflow.*"}, module: "workflow.commands.commits", want: true},
		{name: "subtree needs a dot", patterns: []string{"workflow.*"}, module: "workflowd", want: false},
		{name: "nested subtree", patterns: []string{"workflow.commands.*"}, module: commitsModule, want: false},
		{name: "wildcard", patterns: []string{" ", "*"}, module: "anything", want: true},
		{name: "blank patterns select nothing", patterns: []string{" "}, module: commitsModule, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchModule(tc.patterns, tc.module); got != tc.want {
				t.Fatalf("MatchModule(%v, %q) = %v, want %v", tc.patterns, tc.module, got, tc.want)
			}
		})
	}
}
