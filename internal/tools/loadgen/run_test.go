package loadgen

import "testing"

func TestClassifyStatusClass(t *testing.T) {
	cases := map[int]string{
		200: "2xx",
		204: "2xx",
		302: "3xx",
		404: "4xx",
		500: "5xx",
		100: "other",
	}
	for status, want := range cases {
		if got := classifyStatusClass(status); got != want {
			t.Fatalf("classifyStatusClass(%d)=%q want %q", status, got, want)
		}
	}
}

func TestNormalizeProfile(t *testing.T) {
	if got := normalizeProfile(""); got != "mixed" {
		t.Fatalf("normalizeProfile empty=%q want mixed", got)
	}
	if got := normalizeProfile("  AUTH  "); got != "auth" {
		t.Fatalf("normalizeProfile auth=%q want auth", got)
	}
	if got := normalizeProfile("nonsense"); got != "mixed" {
		t.Fatalf("normalizeProfile nonsense=%q want mixed", got)
	}
}

func TestCaptureTokens(t *testing.T) {
	acct := &account{}
	body := []byte(`{"user":{"id":"x"},"tokens":{"access":{"token":"a1"},"refresh":{"token":"r1"}}}`)
	captureTokens(body, acct)
	if acct.accessToken != "a1" || acct.refreshToken != "r1" {
		t.Fatalf("unexpected tokens: %+v", acct)
	}

	// Garbage and error payloads leave the session untouched.
	captureTokens([]byte(`{"code":401,"message":"Incorrect email or password"}`), acct)
	captureTokens([]byte(`not json`), acct)
	if acct.accessToken != "a1" || acct.refreshToken != "r1" {
		t.Fatalf("tokens clobbered: %+v", acct)
	}
}

func TestCapturePair(t *testing.T) {
	acct := &account{accessToken: "old", refreshToken: "old"}
	capturePair([]byte(`{"access":{"token":"a2"},"refresh":{"token":"r2"}}`), acct)
	if acct.accessToken != "a2" || acct.refreshToken != "r2" {
		t.Fatalf("unexpected tokens: %+v", acct)
	}
}
