package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRecipients(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Recipient
	}{
		{
			name: "混合通道",
			raw:  "line:U1234,telegram:987654",
			want: []Recipient{
				{Channel: "line", ID: "U1234"},
				{Channel: "telegram", ID: "987654"},
			},
		},
		{
			name: "带空白与空条目",
			raw:  " line:U1 , ,telegram:2 ",
			want: []Recipient{
				{Channel: "line", ID: "U1"},
				{Channel: "telegram", ID: "2"},
			},
		},
		{
			name: "无效条目跳过",
			raw:  "line:U1,bogus,telegram:",
			want: []Recipient{{Channel: "line", ID: "U1"}},
		},
		{
			name: "空字符串",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRecipients(tt.raw))
		})
	}
}
