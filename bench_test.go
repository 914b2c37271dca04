package regex

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

// Throughput benchmarks over a 1MB synthetic access log, paired with
// stdlib regexp on the same patterns. All patterns stay inside the
// subset the two dialects share, so the paired runs do equal work.

func generateLogData() []byte {
	var buf bytes.Buffer
	lines := []string{
		"GET /index.html 200 5120 0.003\n",
		"POST /api/v1/users 201 88 0.021\n",
		"GET /static/app.js 304 0 0.001\n",
		"DELETE /api/v1/session 204 0 0.009\n",
		"GET /favicon.ico 404 142 0.000\n",
		"PUT /api/v1/users/42 200 312 0.014\n",
	}
	for buf.Len() < 1<<20 {
		for _, l := range lines {
			buf.WriteString(l)
		}
	}
	return buf.Bytes()
}

var logData = generateLogData()

// Absent literal: the scan visits every byte and confirms nothing.
func BenchmarkLiteralMiss_1MB_Stdlib(b *testing.B) {
	re := regexp.MustCompile(`zlib`)
	b.SetBytes(int64(len(logData)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.Match(logData)
	}
}

func BenchmarkLiteralMiss_1MB_Regex(b *testing.B) {
	re := MustCompile(`zlib`)
	b.SetBytes(int64(len(logData)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.Match(logData)
	}
}

func BenchmarkWordDigit_1MB_Stdlib(b *testing.B) {
	re := regexp.MustCompile(`[a-z]+[0-9]+`)
	b.SetBytes(int64(len(logData)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.FindAllIndex(logData, -1)
	}
}

func BenchmarkWordDigit_1MB_Regex(b *testing.B) {
	re := MustCompile(`[a-z]+[0-9]+`)
	b.SetBytes(int64(len(logData)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.FindAllIndex(logData, -1)
	}
}

func BenchmarkMethodAlt_1MB_Stdlib(b *testing.B) {
	re := regexp.MustCompile(`GET|POST|PUT|DELETE`)
	b.SetBytes(int64(len(logData)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.FindAllIndex(logData, -1)
	}
}

func BenchmarkMethodAlt_1MB_Regex(b *testing.B) {
	re := MustCompile(`GET|POST|PUT|DELETE`)
	b.SetBytes(int64(len(logData)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.FindAllIndex(logData, -1)
	}
}

// Small-string workloads: per-call overhead dominates here.

func BenchmarkKVSubmatch_Stdlib(b *testing.B) {
	re := regexp.MustCompile(`(\w+)=(\w+)`)
	input := []byte("timeout=250")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.FindSubmatchIndex(input)
	}
}

func BenchmarkKVSubmatch_Regex(b *testing.B) {
	re := MustCompile(`(\w+)=(\w+)`)
	input := []byte("timeout=250")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.FindSubmatchIndex(input)
	}
}

var replLine = strings.Repeat("GET /api/v1/users/42 200 312 0.014 ", 4)

func BenchmarkReplaceDigits_Stdlib(b *testing.B) {
	re := regexp.MustCompile(`[0-9]+`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.ReplaceAllString(replLine, "#")
	}
}

func BenchmarkReplaceDigits_Regex(b *testing.B) {
	re := MustCompile(`[0-9]+`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.ReplaceAllString(replLine, "#")
	}
}

// Arena API benchmarks. Matching against a prebuilt program is
// allocation-free; ParseIntoReuse measures recompilation into the same
// arena.

func BenchmarkMatchReuse(b *testing.B) {
	prog := NewProgram(256)
	if !ParseInto(prog, []byte(`(\w+)=(\w+)`)) {
		b.Fatal("parse failed")
	}
	caps := make([]Span, 2)
	input := []byte("timeout=250")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MatchAt(prog, input, 0, caps)
	}
}

func BenchmarkParseIntoReuse(b *testing.B) {
	prog := NewProgram(256)
	pat := []byte(`GET|POST|PUT|DELETE`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !ParseInto(prog, pat) {
			b.Fatal("parse failed")
		}
	}
}

// TestBenchPatternsAgree verifies the paired benchmarks measure the
// same answers, not just the same patterns.
func TestBenchPatternsAgree(t *testing.T) {
	sample := logData[:4096]
	for _, pat := range []string{`zlib`, `[a-z]+[0-9]+`, `GET|POST|PUT|DELETE`, `[0-9]+`} {
		std := regexp.MustCompile(pat)
		re := MustCompile(pat)
		got := re.FindAllIndex(sample, -1)
		want := std.FindAllIndex(sample, -1)
		if len(got) != len(want) {
			t.Fatalf("%q: %d matches, stdlib %d", pat, len(got), len(want))
		}
		for i := range got {
			if got[i][0] != want[i][0] || got[i][1] != want[i][1] {
				t.Fatalf("%q: match %d = %v, stdlib %v", pat, i, got[i], want[i])
			}
		}
	}
}
