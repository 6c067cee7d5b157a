package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/electroredes/contactguard/pkg/sanitizer"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes script block",
			input:    "<script>alert('x')</script>Hola",
			expected: "Hola",
		},
		{
			name:     "removes multi-line uppercase script block",
			input:    "<SCRIPT type='text/javascript'>\nalert(1)\n</SCRIPT>texto",
			expected: "texto",
		},
		{
			name:     "removes iframe and style blocks",
			input:    "<iframe src=x></iframe>a<style>b{}</style>c",
			expected: "ac",
		},
		{
			name:     "stops at the nearest closing tag",
			input:    "<object>1</object>keep<object>2</object>",
			expected: "keep",
		},
		{
			name:     "removes event handler prefix",
			input:    "<img src=x onerror=alert(1)>",
			expected: "<img src=x alert(1)>",
		},
		{
			name:     "event handler pattern also hits plain words",
			input:    "condition = true",
			expected: "c true",
		},
		{
			name:     "removes dangerous schemes case-insensitively",
			input:    "JaVaScRiPt:x DATA:y vbscript:z",
			expected: "x y z",
		},
		{
			name:     "strips control characters but keeps tab and newlines",
			input:    "a\x00b\x07c\td\ne\rf\x7f",
			expected: "abc\td\ne\rf",
		},
		{
			name:     "non-ascii lookalikes do not fold into tag names",
			input:    "<ſcript>bad</script>",
			expected: "<ſcript>bad</script>",
		},
		{
			name:     "non-ascii lookalikes do not fold into schemes",
			input:    "javaſcript:x",
			expected: "javaſcript:x",
		},
		{
			name:     "handles empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "leaves normal text alone",
			input:    "Necesito una cotización",
			expected: "Necesito una cotización",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.SanitizeText(tt.input))
		})
	}
}

func TestSanitizeText_Length(t *testing.T) {
	t.Parallel()

	assert.Equal(t, strings.Repeat("a", 1000), sanitizer.SanitizeText(strings.Repeat("a", 1500)))
	assert.Equal(t, 1000, sanitizer.RuneCount(sanitizer.SanitizeText(strings.Repeat("ñ", 1001))))
}

func TestStripSQLTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes quotes separators comments and keywords",
			input:    "Robert'); DROP TABLE students;--",
			expected: "Robert)  TABLE students",
		},
		{
			name:     "is case-insensitive",
			input:    "1 UNION select * from users",
			expected: "1   * from users",
		},
		{
			name:     "removes comment markers",
			input:    "/* c */",
			expected: " c ",
		},
		{
			name:     "removes procedure prefixes before keywords",
			input:    "update your sp_info",
			expected: " your info",
		},
		{
			name:     "shorter keyword wins over longer one",
			input:    "EXECUTE",
			expected: "UTE",
		},
		{
			name:     "only ascii letters fold",
			input:    "ſELECT is a word here ok",
			expected: "ſELECT is a word here ok",
		},
		{
			name:     "long s does not fold into a procedure prefix",
			input:    "ſp_info xp_cmd",
			expected: "ſp_info cmd",
		},
		{
			name:     "re-formed keyword survives a single pass",
			input:    "SELSELECTECT",
			expected: "SELECT",
		},
		{
			name:     "handles empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.StripSQLTokens(tt.input))
		})
	}
}

func TestPreventSSTI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes mustache expression",
			input:    "Hola {{7*7}} mundo",
			expected: "Hola  mundo",
		},
		{
			name:     "greedy match removes text between expressions",
			input:    "a {{x}} b {{y}} c",
			expected: "a  c",
		},
		{
			name:     "removes jinja blocks",
			input:    "{% if %}x{% endif %}",
			expected: "",
		},
		{
			name:     "removes template literal",
			input:    "total ${7*7}",
			expected: "total ",
		},
		{
			name:     "removes erb tags",
			input:    "<%= system('id') %>ok",
			expected: "ok",
		},
		{
			name:     "removes ruby interpolation",
			input:    "#{`id`}",
			expected: "",
		},
		{
			name:     "does not cross line breaks",
			input:    "{{a\n}}",
			expected: "{{a\n}}",
		},
		{
			name:     "runs to the last closing brace",
			input:    "${a} text }",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.PreventSSTI(tt.input))
		})
	}
}

func TestPreventFileInclusion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes traversal sequences",
			input:    "../../etc/passwd",
			expected: "etc/passwd",
		},
		{
			name:     "removes absolute unix paths case-insensitively",
			input:    "/ETC/passwd",
			expected: "passwd",
		},
		{
			name:     "removes windows paths",
			input:    `C:\Windows\System32\cmd.exe`,
			expected: "cmd.exe",
		},
		{
			name:     "removes windows traversal",
			input:    `..\..\boot.ini`,
			expected: "boot.ini",
		},
		{
			name:     "removes program files",
			input:    "Program Files",
			expected: "",
		},
		{
			name:     "removes home fragment",
			input:    "I live at /home/",
			expected: "I live at ",
		},
		{
			name:     "re-formed traversal survives a single pass",
			input:    "..././",
			expected: "../",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.PreventFileInclusion(tt.input))
		})
	}
}

func TestFieldSanitizers(t *testing.T) {
	t.Parallel()

	t.Run("name", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Juan Pérez", sanitizer.SanitizeName("  Juan   Pérez  "))
		assert.Equal(t, "Juan bPérezb", sanitizer.SanitizeName("Juan123 <b>Pérez</b>!"))
		assert.Equal(t, "José María", sanitizer.SanitizeName("José\u00a0María"))
		assert.Equal(t, strings.Repeat("a", 100), sanitizer.SanitizeName(strings.Repeat("a", 150)))
		assert.Equal(t, "", sanitizer.SanitizeName("12345"))
	})

	t.Run("email", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "user@example.com", sanitizer.SanitizeEmail("  USER@Example.COM "))
		assert.Equal(t, "johndoe@mail.com", sanitizer.SanitizeEmail("john<doe>@mail.com"))
		assert.Equal(t, "", sanitizer.SanitizeEmail(""))
	})

	t.Run("message", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "bHola/b mundo", sanitizer.SanitizeMessage("  <b>Hola</b> mundo  "))
		assert.Equal(t, "", sanitizer.SanitizeMessage("<script>x</script>"))
	})
}

func TestInputFilters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ana  Gómez", sanitizer.FilterNameInput("Ana 1 Gómez"))
	assert.Equal(t, "ana@x.co", sanitizer.FilterEmailInput("ANA@X.CO "))
	assert.Equal(t, "bhi/b", sanitizer.FilterMessageInput("<b>hi</b>"))
}

func TestFieldCaps(t *testing.T) {
	t.Parallel()

	inputs := []string{
		strings.Repeat("a b ", 600),
		strings.Repeat("ÁÉÍ", 900),
		strings.Repeat("x@y.", 400),
		strings.Repeat("<p>hola</p>", 500),
		strings.Repeat("{{x}}", 300) + strings.Repeat("z", 3000),
	}

	for _, in := range inputs {
		chained := sanitizer.FormChain(in)
		assert.LessOrEqual(t, sanitizer.RuneCount(sanitizer.SanitizeText(chained)), sanitizer.MaxTextLength)
		assert.LessOrEqual(t, sanitizer.RuneCount(sanitizer.SanitizeName(chained)), sanitizer.MaxNameLength)
		assert.LessOrEqual(t, sanitizer.RuneCount(sanitizer.SanitizeEmail(chained)), sanitizer.MaxEmailLength)
		assert.LessOrEqual(t, sanitizer.RuneCount(sanitizer.SanitizeMessage(chained)), sanitizer.MaxMessageLength)
	}
}

func TestFormChain_Idempotent(t *testing.T) {
	t.Parallel()

	fields := map[string]func(string) string{
		"name":    sanitizer.Compose(sanitizer.FormChain, sanitizer.SanitizeName),
		"email":   sanitizer.Compose(sanitizer.FormChain, sanitizer.SanitizeEmail),
		"message": sanitizer.Compose(sanitizer.FormChain, sanitizer.SanitizeMessage),
	}
	inputs := []string{
		"Juan Pérez",
		"  USER@Example.com ",
		"Hola, necesito una cotización para 3 postes; gracias!",
		"it's <b>urgent</b> {{now}} ../tmp",
		"<script>alert(1)</script>Buenos días",
	}

	for field, clean := range fields {
		for _, in := range inputs {
			once := clean(in)
			assert.Equal(t, once, clean(once), "field %s input %q", field, in)
		}
	}
}
