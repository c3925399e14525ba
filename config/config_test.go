package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"INT":     "42",
		"BAD_INT": "forty-two",
		"BOOL":    "true",
		"LIST":    " a, b ,,c ",
		"EMPTY":   "",
	}

	if got := GetInt(c, "INT", 0); got != 42 {
		t.Errorf("GetInt = %d, want 42", got)
	}
	if got := GetInt(c, "BAD_INT", 7); got != 7 {
		t.Errorf("GetInt fallback = %d, want 7", got)
	}
	if !GetBool(c, "BOOL", false) {
		t.Error("GetBool = false, want true")
	}
	if !GetBool(c, "LIST", true) {
		t.Error("GetBool fallback = false, want true")
	}
	if got := GetStrings(c, "LIST", nil); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("GetStrings = %v", got)
	}
	if got := GetStrings(c, "EMPTY", []string{"x"}); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("GetStrings empty = %v, want default", got)
	}
	if got := GetString(nil, "ANY", "d"); got != "d" {
		t.Errorf("GetString nil map = %q", got)
	}
}

func TestMerge_LaterLayerWins(t *testing.T) {
	merged := Merge(
		map[string]string{"A": "file", "B": "file"},
		map[string]string{"B": "ssm", "C": "ssm"},
		map[string]string{"C": "env"},
	)
	want := map[string]string{"A": "file", "B": "ssm", "C": "env"}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("Merge = %v, want %v", merged, want)
	}
}

func TestLoadFile_FlattensNestedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := []byte(`
port: 9090
db:
  pool-size: 30
  replica_dsns:
    - host=r1
    - host=r2
outbox:
  batch_size: 50
`)
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	want := map[string]string{
		"PORT":              "9090",
		"DB_POOL_SIZE":      "30",
		"DB_REPLICA_DSNS":   "host=r1,host=r2",
		"OUTBOX_BATCH_SIZE": "50",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadFile = %v, want %v", got, want)
	}

	s := NewSettings(got)
	if s.Port != "9090" || s.DBMaxOpenConns != 30 || len(s.ReplicaDSNs) != 2 {
		t.Errorf("settings not applied: %+v", s)
	}
	if s.OutboxBatchSize != 50 {
		t.Errorf("OutboxBatchSize = %d", s.OutboxBatchSize)
	}
}

func TestNewSettings_Defaults(t *testing.T) {
	s := NewSettings(map[string]string{})

	if s.Port != "8080" {
		t.Errorf("Port = %q", s.Port)
	}
	if s.OutboxBatchSize != 200 || s.OutboxMaxAttempts != 5 {
		t.Errorf("outbox defaults = %d / %d", s.OutboxBatchSize, s.OutboxMaxAttempts)
	}
	if s.MaxVideoSizeMB != 500 || s.MaxImageSizeMB != 10 {
		t.Errorf("media limits = %d / %d", s.MaxVideoSizeMB, s.MaxImageSizeMB)
	}
	if s.ViewDedupeTTL != time.Hour {
		t.Errorf("ViewDedupeTTL = %v", s.ViewDedupeTTL)
	}
	if s.DatabaseDSN == "" {
		t.Error("expected assembled DSN")
	}
}

func TestNewSettings_DatabaseURLWins(t *testing.T) {
	s := NewSettings(map[string]string{"DATABASE_URL": "postgres://u@h/db", "DB_HOST": "ignored"})
	if s.DatabaseDSN != "postgres://u@h/db" {
		t.Errorf("DatabaseDSN = %q", s.DatabaseDSN)
	}
}

type fakeSSM struct {
	pages []*ssm.GetParametersByPathOutput
	calls int
}

func (f *fakeSSM) GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestLoadParameters_Paginates(t *testing.T) {
	client := &fakeSSM{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []types.Parameter{{Name: aws.String("/reelbyte/prod/JWT_SECRET"), Value: aws.String("s3cret")}},
			NextToken:  aws.String("next"),
		},
		{
			Parameters: []types.Parameter{{Name: aws.String("/reelbyte/prod/db/DB_PASSWORD"), Value: aws.String("pw")}},
		},
	}}

	got, err := LoadParameters(context.Background(), client, "/reelbyte/prod")
	if err != nil {
		t.Fatalf("LoadParameters: %v", err)
	}
	want := map[string]string{"JWT_SECRET": "s3cret", "DB_PASSWORD": "pw"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadParameters = %v, want %v", got, want)
	}
	if client.calls != 2 {
		t.Errorf("calls = %d, want 2", client.calls)
	}
}
