package emotion

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	reg := NewRegistry("")

	tests := []struct {
		name      string
		text      string
		wantClean string
		wantTags  []string
	}{
		{
			name:      "square brackets",
			text:      "我很开心[开心]，已经处理好了",
			wantClean: "我很开心，已经处理好了",
			wantTags:  []string{"开心"},
		},
		{
			name:      "ascii parens",
			text:      "哼(生气)",
			wantClean: "哼",
			wantTags:  []string{"生气"},
		},
		{
			name:      "fullwidth parens",
			text:      "（喵）你好",
			wantClean: "你好",
			wantTags:  []string{"喵"},
		},
		{
			name:      "unknown tag left untouched",
			text:      "你好[不存在的标签]",
			wantClean: "你好[不存在的标签]",
			wantTags:  nil,
		},
		{
			name:      "no brackets",
			text:      "平平无奇的一句话",
			wantClean: "平平无奇的一句话",
			wantTags:  nil,
		},
		{
			name:      "capped at two but all removed from text",
			text:      "[开心][生气][悲伤]",
			wantClean: "",
			wantTags:  []string{"开心", "生气"},
		},
		{
			name:      "duplicates collapse to first occurrence",
			text:      "[开心]哈哈(开心)",
			wantClean: "哈哈",
			wantTags:  []string{"开心"},
		},
		{
			name:      "mixed known and unknown",
			text:      "[开心]和[未知]",
			wantClean: "和[未知]",
			wantTags:  []string{"开心"},
		},
		{
			name:      "square brackets scanned before parens",
			text:      "先(悲伤)后[生气]",
			wantClean: "先后",
			wantTags:  []string{"生气", "悲伤"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, tags := Extract(reg, tt.text)
			if clean != tt.wantClean {
				t.Errorf("clean = %q, want %q", clean, tt.wantClean)
			}
			if !reflect.DeepEqual(tags, tt.wantTags) {
				t.Errorf("tags = %v, want %v", tags, tt.wantTags)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	reg := NewRegistry("")

	clean, tags := Extract(reg, "我很开心[开心]，已经处理好了")
	if len(tags) != 1 {
		t.Fatalf("first pass tags = %v", tags)
	}

	// A second pass over the cleaned text finds nothing and changes nothing.
	again, tags2 := Extract(reg, clean)
	if again != clean {
		t.Errorf("second pass changed text: %q -> %q", clean, again)
	}
	if tags2 != nil {
		t.Errorf("second pass found tags: %v", tags2)
	}
}
