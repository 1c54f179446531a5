package tagging

import (
	"reflect"
	"testing"
)

func TestInferTags(t *testing.T) {
	tagger := New()

	tests := []struct {
		name  string
		title string
		kind  string
		want  []string
	}{
		{name: "fort", title: "Amber Fort", kind: "Historical landmark", want: []string{"Heritage"}},
		{name: "temple on ghat", title: "Kashi Vishwanath Temple", kind: "Hindu temple", want: []string{"Spiritual"}},
		{name: "multiple", title: "Calangute Beach Shack Cafe", kind: "Restaurant", want: []string{"Beach", "Food"}},
		{name: "word boundary", title: "Mathematics Centre", kind: "School", want: []string{}},
		{name: "no match", title: "Office Tower", kind: "Corporate office", want: []string{}},
		{name: "case insensitive", title: "NATIONAL MUSEUM", kind: "", want: []string{"Museum"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tagger.InferTags(tt.title, tt.kind)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("InferTags(%q, %q) = %v, want %v", tt.title, tt.kind, got, tt.want)
			}
		})
	}
}

func TestRuleManagement(t *testing.T) {
	tagger := New()
	tagger.AddRule("Houseboat", []string{"houseboat", "kettuvallam"})

	if got := tagger.InferTags("Alleppey Houseboat Cruise", ""); !reflect.DeepEqual(got, []string{"Houseboat"}) {
		t.Fatalf("InferTags after AddRule = %v", got)
	}

	tagger.RemoveRule("Houseboat")
	if _, ok := tagger.GetRules()["Houseboat"]; ok {
		t.Fatal("RemoveRule did not remove the rule")
	}

	rules := tagger.GetRules()
	rules["Heritage"] = nil
	if len(tagger.GetRules()["Heritage"]) == 0 {
		t.Fatal("GetRules should return a copy")
	}
}
