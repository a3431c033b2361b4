package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bambinounos/psicoeval/internal/config"
	"github.com/bambinounos/psicoeval/internal/monitoring"
)

// Confidence mirrors the levels the review panel already understands.
type Confidence string

const (
	ConfidenceHigh   Confidence = "ALTA"
	ConfidenceMedium Confidence = "MEDIA"
	ConfidenceLow    Confidence = "BAJA"
)

// GradeResult is one AI assessment of a projective artifact. Score is always
// clamped to 1-10.
type GradeResult struct {
	Score          int        `json:"puntuacion"`
	Interpretation string     `json:"interpretacion"`
	Confidence     Confidence `json:"confianza"`
}

// SentenceAnswer pairs one incomplete-sentence stem with the candidate's
// completion.
type SentenceAnswer struct {
	Dimension string
	Stem      string
	Answer    string
}

// Grader scores projective artifacts. Implementations never return an error:
// any transport or parsing failure degrades to a low-confidence stub so one
// broken call cannot block the review workflow.
type Grader interface {
	GradeDrawing(ctx context.Context, testName, imageB64 string) GradeResult
	GradeSentences(ctx context.Context, answers []SentenceAnswer) GradeResult
	GradeColors(ctx context.Context, rankingData string) GradeResult
}

const drawingPrompt = `Eres un psicólogo experto en pruebas proyectivas gráficas.
Analiza el siguiente dibujo de la prueba "%s".

Evalúa los siguientes aspectos:
- Tamaño y ubicación en la hoja
- Presión y calidad del trazo
- Detalles y elementos incluidos
- Indicadores emocionales y de personalidad
- Signos de estrés, ansiedad o estabilidad

Responde EXCLUSIVAMENTE con un JSON válido (sin markdown, sin texto extra):
{"puntuacion": <1-10>, "interpretacion": "<análisis breve en español, máximo 200 palabras>", "confianza": "<ALTA|MEDIA|BAJA>"}`

const sentencesPrompt = `Eres un psicólogo experto en la prueba de Frases Incompletas de Sacks.
Analiza las siguientes respuestas agrupadas por dimensión.

%s

Evalúa:
- Actitud general hacia el trabajo, autoridad y compromiso
- Indicadores de conflicto o adaptación
- Coherencia y elaboración de las respuestas

Responde EXCLUSIVAMENTE con un JSON válido (sin markdown, sin texto extra):
{"puntuacion": <1-10>, "interpretacion": "<análisis breve en español, máximo 200 palabras>", "confianza": "<ALTA|MEDIA|BAJA>"}`

const colorsPrompt = `Eres un psicólogo experto en el Test de Colores de Lüscher.
Analiza la siguiente secuencia de preferencia de colores:

%s

Evalúa:
- Preferencias y rechazos significativos
- Estado emocional actual
- Necesidades y fuentes de estrés
- Compatibilidad con un perfil laboral

Responde EXCLUSIVAMENTE con un JSON válido (sin markdown, sin texto extra):
{"puntuacion": <1-10>, "interpretacion": "<análisis breve en español, máximo 200 palabras>", "confianza": "<ALTA|MEDIA|BAJA>"}`

// OpenAIGrader implements Grader against the OpenAI chat completion API.
type OpenAIGrader struct {
	client *openai.Client
	cfg    config.AIConfig
	log    *zap.Logger
}

func NewOpenAIGrader(cfg config.AIConfig, log *zap.Logger) *OpenAIGrader {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIGrader{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		log:    log,
	}
}

func (g *OpenAIGrader) GradeDrawing(ctx context.Context, testName, imageB64 string) GradeResult {
	if imageB64 == "" {
		return g.fallback("No se encontró imagen para analizar.")
	}
	prompt := fmt.Sprintf(drawingPrompt, testName)
	return g.complete(ctx, prompt, imageB64)
}

func (g *OpenAIGrader) GradeSentences(ctx context.Context, answers []SentenceAnswer) GradeResult {
	if len(answers) == 0 {
		return g.fallback("No se encontraron frases para analizar.")
	}
	grouped := make(map[string][]SentenceAnswer)
	var order []string
	for _, a := range answers {
		if _, ok := grouped[a.Dimension]; !ok {
			order = append(order, a.Dimension)
		}
		grouped[a.Dimension] = append(grouped[a.Dimension], a)
	}
	var b strings.Builder
	for _, dim := range order {
		fmt.Fprintf(&b, "\n### %s\n", dim)
		for _, a := range grouped[dim] {
			fmt.Fprintf(&b, "- %q → %q\n", a.Stem, a.Answer)
		}
	}
	return g.complete(ctx, fmt.Sprintf(sentencesPrompt, b.String()), "")
}

func (g *OpenAIGrader) GradeColors(ctx context.Context, rankingData string) GradeResult {
	if rankingData == "" {
		return g.fallback("No se encontraron datos de colores para analizar.")
	}
	return g.complete(ctx, fmt.Sprintf(colorsPrompt, rankingData), "")
}

func (g *OpenAIGrader) complete(ctx context.Context, prompt, imageB64 string) GradeResult {
	var parts []openai.ChatMessagePart
	if imageB64 != "" {
		url := imageB64
		if !strings.HasPrefix(url, "data:") {
			url = "data:image/png;base64," + url
		}
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: url},
		})
	}
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt,
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
	})
	if err != nil {
		g.log.Error("AI grading request failed", zap.Error(err))
		return g.fallback(fmt.Sprintf("Error al llamar al servicio de IA: %v", err))
	}
	if len(resp.Choices) == 0 {
		return g.fallback("El servicio de IA no devolvió contenido.")
	}
	return g.parse(resp.Choices[0].Message.Content)
}

// parse tolerates markdown code fences, clamps the score to 1-10 and defaults
// the confidence to BAJA on anything unexpected.
func (g *OpenAIGrader) parse(text string) GradeResult {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			kept = append(kept, line)
		}
		text = strings.TrimSpace(strings.Join(kept, "\n"))
	}

	var result GradeResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		g.log.Warn("AI returned non-JSON grading output", zap.String("output", truncate(text, 200)))
		return g.fallback("No se pudo interpretar la respuesta de IA: " + truncate(text, 200))
	}
	if result.Score < 1 {
		result.Score = 1
	}
	if result.Score > 10 {
		result.Score = 10
	}
	switch result.Confidence {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
	default:
		result.Confidence = ConfidenceLow
	}
	return result
}

func (g *OpenAIGrader) fallback(msg string) GradeResult {
	monitoring.AIGradingFailures.Inc()
	return GradeResult{Score: 5, Interpretation: msg, Confidence: ConfidenceLow}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
