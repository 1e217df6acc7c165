package jskema

import "testing"

func TestDetectDuplicateKeys_NoDup(t *testing.T) {
	iss, err := DetectDuplicateKeys(JSONBytes([]byte(`{"a":1,"b":{"a":2}}`)), -1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 0 {
		t.Fatalf("expected 0 issues, got %d: %v", len(iss), iss)
	}
}

func TestDetectDuplicateKeys_WithDup(t *testing.T) {
	iss, err := DetectDuplicateKeys(JSONBytes([]byte(`{"a":1,"a":2,"n":{"x":1,"x":2}}`)), -1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 2 {
		t.Fatalf("expected 2 issues, got %v", iss)
	}
	if iss[0].Code != CodeDuplicateKey || iss[0].Path != "/a" || iss[1].Path != "/n/x" {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestDetectDuplicateKeys_Limit(t *testing.T) {
	iss, err := DetectDuplicateKeys(JSONBytes([]byte(`{"a":1,"a":2,"b":1,"b":2}`)), 1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 2 || iss[0].Path != "/a" || iss[1].Code != CodeTruncated {
		t.Fatalf("expected one duplicate then truncated, got %v", iss)
	}
	if iss, _ := DetectDuplicateKeys(JSONBytes([]byte(`{"a":1,"a":2}`)), 0); iss != nil {
		t.Fatalf("limit 0 disables the scan, got %v", iss)
	}
}

func TestDetectDuplicateKeys_Malformed(t *testing.T) {
	if _, err := DetectDuplicateKeys(JSONBytes([]byte(`{"a":`)), -1); err == nil {
		t.Fatalf("expected error for malformed input")
	}
}
