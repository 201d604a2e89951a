package protocol

import (
	"consultoria-tcp/errors"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type projectPayload struct {
	ProjectID int64  `json:"projectId" validate:"required,gt=0"`
	Content   string `json:"content"`
}

func TestBind(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		wantErr string
		want    projectPayload
	}{
		{
			name: "json number",
			data: map[string]any{"projectId": json.Number("42"), "content": "hi"},
			want: projectPayload{ProjectID: 42, Content: "hi"},
		},
		{
			name: "float from a literal map",
			data: map[string]any{"projectId": 42.0},
			want: projectPayload{ProjectID: 42},
		},
		{
			name:    "missing project",
			data:    map[string]any{"content": "hi"},
			wantErr: "invalid payload: projectId failed on required",
		},
		{
			name:    "nil data",
			data:    nil,
			wantErr: "invalid payload: projectId failed on required",
		},
		{
			name:    "wrong type",
			data:    map[string]any{"projectId": "forty-two"},
			wantErr: "invalid payload: projectId must be a int64",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			var got projectPayload
			err := Bind(tt.data, &got)
			if tt.wantErr != "" {
				req.ErrorIs(err, errors.ErrInvalidPayload)
				req.EqualError(err, tt.wantErr)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, got)
		})
	}
}
