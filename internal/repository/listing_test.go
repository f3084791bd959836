package repository

import (
	"strings"
	"testing"
)

func TestCampaignListQuery(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		limit      int
		wantWhere  string
		wantArgs   []any
		rejectText string
	}{
		{
			name:       "no filter",
			status:     "",
			limit:      20,
			wantArgs:   nil,
			rejectText: "WHERE",
		},
		{
			name:      "status filter",
			status:    "active",
			limit:     50,
			wantWhere: "WHERE status = $1",
			wantArgs:  []any{"active"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := campaignListQuery(tt.status, tt.limit)
			if err != nil {
				t.Fatalf("campaignListQuery: %v", err)
			}
			if tt.wantWhere != "" && !strings.Contains(query, tt.wantWhere) {
				t.Errorf("query %q missing %q", query, tt.wantWhere)
			}
			if tt.rejectText != "" && strings.Contains(query, tt.rejectText) {
				t.Errorf("query %q should not contain %q", query, tt.rejectText)
			}
			if !strings.Contains(query, "ORDER BY detected_at DESC") {
				t.Errorf("query %q not ordered newest first", query)
			}
			if !strings.HasSuffix(query, "LIMIT 20") && !strings.HasSuffix(query, "LIMIT 50") {
				t.Errorf("query %q missing the limit", query)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("got %d args, want %d", len(args), len(tt.wantArgs))
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("arg %d = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestTimeoutListQuery(t *testing.T) {
	tests := []struct {
		name       string
		accountID  string
		activeOnly bool
		wantParts  []string
		wantArgs   []any
	}{
		{
			name:      "all timeouts",
			wantParts: []string{"ORDER BY created_at DESC", "LIMIT 10"},
			wantArgs:  nil,
		},
		{
			name:      "by account",
			accountID: "acct-1",
			wantParts: []string{"account_id = $1"},
			wantArgs:  []any{"acct-1"},
		},
		{
			name:       "active for account",
			accountID:  "acct-1",
			activeOnly: true,
			wantParts:  []string{"account_id = $1", "is_active = $2", "expires_at > NOW()"},
			wantArgs:   []any{"acct-1", true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := timeoutListQuery(tt.accountID, tt.activeOnly, 10)
			if err != nil {
				t.Fatalf("timeoutListQuery: %v", err)
			}
			for _, part := range tt.wantParts {
				if !strings.Contains(query, part) {
					t.Errorf("query %q missing %q", query, part)
				}
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("got %d args, want %d", len(args), len(tt.wantArgs))
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("arg %d = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}
