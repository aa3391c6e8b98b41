package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritas-dev/veritas/internal/compare"
	"github.com/veritas-dev/veritas/internal/extract"
)

func TestParseResponse_PlainJSON(t *testing.T) {
	t.Parallel()

	result, err := parseResponse(`{"confidence": 72, "issues": [{"type": "parameter_type", "severity": "medium", "description": "discount type mismatch", "suggestion": "fix the docs"}]}`)
	require.NoError(t, err)
	assert.Equal(t, 72.0, result.Confidence)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, compare.TypeParameterType, result.Issues[0].Type)
	assert.Equal(t, compare.SeverityMedium, result.Issues[0].Severity)
	assert.Equal(t, "discount type mismatch", result.Issues[0].Description)
}

func TestParseResponse_MarkdownFenced(t *testing.T) {
	t.Parallel()

	content := "```json\n{\"confidence\": 55, \"issues\": []}\n```"
	result, err := parseResponse(content)
	require.NoError(t, err)
	assert.Equal(t, 55.0, result.Confidence)
	assert.Empty(t, result.Issues)
}

func TestParseResponse_SurroundingProse(t *testing.T) {
	t.Parallel()

	content := `Here is my assessment of the pair:

{"confidence": 30, "issues": [{"type": "return_type", "severity": "high", "description": "returns dict, docs say list"}]}

Let me know if you need more detail.`
	result, err := parseResponse(content)
	require.NoError(t, err)
	assert.Equal(t, 30.0, result.Confidence)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, compare.TypeReturnType, result.Issues[0].Type)
}

func TestParseResponse_Malformed(t *testing.T) {
	t.Parallel()

	for name, content := range map[string]string{
		"empty":       "",
		"no json":     "I cannot evaluate this function.",
		"broken json": `{"confidence": "not a number", "issues": }`,
		"only open":   "{",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := parseResponse(content)
			require.Error(t, err)
			assert.ErrorIs(t, err, compare.ErrMalformedResponse)
		})
	}
}

func TestParseResponse_ClampsConfidence(t *testing.T) {
	t.Parallel()

	result, err := parseResponse(`{"confidence": 180, "issues": []}`)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Confidence)

	result, err = parseResponse(`{"confidence": -12, "issues": []}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestParseResponse_NormalizesUnknownFields(t *testing.T) {
	t.Parallel()

	result, err := parseResponse(`{"confidence": 40, "issues": [{"type": "SOMETHING_ELSE", "severity": "catastrophic", "description": "x"}]}`)
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, compare.TypeFunctionSignature, result.Issues[0].Type, "unknown types fall back to function_signature")
	assert.Empty(t, result.Issues[0].Severity, "unknown severities are dropped so the synthesizer assigns one")
}

func TestParseResponse_CaseInsensitiveEnums(t *testing.T) {
	t.Parallel()

	result, err := parseResponse(`{"confidence": 40, "issues": [{"type": "Missing_Documentation", "severity": "HIGH", "description": "x"}]}`)
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, compare.TypeMissingDocumentation, result.Issues[0].Type)
	assert.Equal(t, compare.SeverityHigh, result.Issues[0].Severity)
}

func TestRetryWithBackoff_SucceedsWithoutRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retryWithBackoff(context.Background(), 3, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_StopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retryWithBackoff(ctx, 3, func() error {
		calls++
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "canceled contexts must not burn retries")
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAI(Config{})
	require.Error(t, err)

	j, err := NewOpenAI(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.NotNil(t, j)
}

func TestBuildPrompt_CoversBothSides(t *testing.T) {
	t.Parallel()

	prompt := buildPrompt(samplePromptCode(), samplePromptDoc())
	assert.Contains(t, prompt, "calculate_total")
	assert.Contains(t, prompt, "price")
	assert.Contains(t, prompt, "CODE")
	assert.Contains(t, prompt, "DOCUMENTATION")
	assert.Contains(t, prompt, "JSON")
}

func samplePromptCode() extract.CodeUnit {
	return extract.CodeUnit{
		Name: "calculate_total",
		Parameters: []extract.Parameter{
			{Name: "price", Type: "float"},
			{Name: "quantity", Type: "int"},
			{Name: "discount", Type: "float", Default: "0.0"},
		},
		ReturnType: "float",
		Docstring:  "Calculate the order total.",
		FilePath:   "src/billing.py",
		Line:       10,
	}
}

func samplePromptDoc() extract.DocUnit {
	return extract.DocUnit{
		FunctionName: "calculate_total",
		Parameters: []extract.DocParameter{
			{Name: "price", TypeDescribed: "float"},
			{Name: "quantity", TypeDescribed: "int"},
		},
		ReturnDescription: "the total as a float",
		CodeExamples:      []string{"calculate_total(9.5, 3)"},
		FilePath:          "docs/api.md",
		Line:              3,
	}
}
