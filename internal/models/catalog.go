package models

import (
	"gorm.io/datatypes"
)

// TestKind identifies one of the fixed psychometric instruments. The wire
// values match the codes used by the existing evaluator tooling, so they stay
// in Spanish even though identifiers are English.
type TestKind string

const (
	KindBigFive      TestKind = "BIGFIVE"
	KindCommitment   TestKind = "COMPROMISO"
	KindObedience    TestKind = "OBEDIENCIA"
	KindMemory       TestKind = "MEMORIA"
	KindMatrices     TestKind = "MATRICES"
	KindTree         TestKind = "ARBOL"
	KindPersonRain   TestKind = "PERSONA_LLUVIA"
	KindSentences    TestKind = "FRASES"
	KindColors       TestKind = "COLORES"
	KindSituational  TestKind = "SITUACIONAL"
	KindDesirability TestKind = "DESEABILIDAD"
	KindAttention    TestKind = "ATENCION"
)

// ResponseClass tells handlers and scoring which response table an
// instrument's answers live in.
type ResponseClass int

const (
	ClassPsychometric ResponseClass = iota
	ClassMemory
	ClassMatrix
	ClassProjective
	ClassSituational
	ClassAttention
)

type kindInfo struct {
	DisplayName string
	Projective  bool
	Class       ResponseClass
}

// kindCatalog is the single source of truth for instrument metadata. Scoring,
// selection and response capture all dispatch through it instead of comparing
// kind strings inline.
var kindCatalog = map[TestKind]kindInfo{
	KindBigFive:      {"Big Five (OCEAN)", false, ClassPsychometric},
	KindCommitment:   {"Compromiso Organizacional (Allen & Meyer)", false, ClassPsychometric},
	KindObedience:    {"Escala de Obediencia/Conformidad", false, ClassPsychometric},
	KindMemory:       {"Test de Memoria de Trabajo", false, ClassMemory},
	KindMatrices:     {"Matrices Progresivas", false, ClassMatrix},
	KindTree:         {"Test del Árbol (Koch)", true, ClassProjective},
	KindPersonRain:   {"Persona bajo la Lluvia", true, ClassProjective},
	KindSentences:    {"Frases Incompletas (Sacks)", true, ClassProjective},
	KindColors:       {"Test de Colores (Lüscher)", true, ClassProjective},
	KindSituational:  {"Prueba Situacional", false, ClassSituational},
	KindDesirability: {"Escala de Deseabilidad Social", false, ClassPsychometric},
	KindAttention:    {"Atención al Detalle", false, ClassAttention},
}

// Valid reports whether k is one of the known instrument kinds.
func (k TestKind) Valid() bool {
	_, ok := kindCatalog[k]
	return ok
}

// Projective reports whether the instrument requires manual or AI review.
func (k TestKind) Projective() bool {
	return kindCatalog[k].Projective
}

// Class returns the response class answers for this instrument belong to.
func (k TestKind) Class() ResponseClass {
	return kindCatalog[k].Class
}

// DisplayName returns the human-readable instrument name.
func (k TestKind) DisplayName() string {
	return kindCatalog[k].DisplayName
}

// ScaleType describes how a question is answered.
type ScaleType string

const (
	ScaleLikert5        ScaleType = "LIKERT5"
	ScaleLikert7        ScaleType = "LIKERT7"
	ScaleMultipleChoice ScaleType = "OPCION_MULTIPLE"
	ScaleFreeText       ScaleType = "TEXTO_LIBRE"
	ScaleSequence       ScaleType = "SECUENCIA"
	ScaleColorPick      ScaleType = "SELECCION_COLOR"
)

// Dimension tags a question with the sub-trait it measures.
type Dimension string

const (
	DimBFResponsibility Dimension = "BF_RESP"
	DimBFAgreeableness  Dimension = "BF_AMAB"
	DimBFNeuroticism    Dimension = "BF_NEUR"
	DimBFOpenness       Dimension = "BF_APER"
	DimBFExtraversion   Dimension = "BF_EXTR"

	DimCommitAffective   Dimension = "CO_AFEC"
	DimCommitContinuance Dimension = "CO_CONT"
	DimCommitNormative   Dimension = "CO_NORM"

	DimObedDiscipline Dimension = "OB_DISC"
	DimObedConformity Dimension = "OB_CONF"
	DimObedAuthority  Dimension = "OB_AUTO"

	DimSitResponsibility Dimension = "SIT_RESP"
	DimSitObedience      Dimension = "SIT_OBED"
	DimSitLoyalty        Dimension = "SIT_LEAL"

	DimSentWork       Dimension = "FR_TRAB"
	DimSentAuthority  Dimension = "FR_AUTO"
	DimSentCommitment Dimension = "FR_COMP"

	DimColorPreference Dimension = "COL_PREF"
	DimDesirability    Dimension = "DS_DESB"

	DimAttComparison   Dimension = "AT_COMP"
	DimAttVerification Dimension = "AT_VERI"
	DimAttSequence     Dimension = "AT_SECU"

	DimGeneral Dimension = "GENERAL"
)

// Test is one instrument in the catalog. Reference data, edited only by
// administrators.
type Test struct {
	ID               uint     `gorm:"primaryKey" json:"id"`
	Kind             TestKind `gorm:"size:20;uniqueIndex" json:"kind"`
	Name             string   `gorm:"size:200" json:"name"`
	Description      string   `json:"description"`
	Instructions     string   `json:"instructions"`
	TimeLimitMinutes *int     `json:"time_limit_minutes,omitempty"` // nil = no limit
	Position         int      `gorm:"default:0" json:"position"`
	Active           bool     `gorm:"default:true" json:"active"`
	Projective       bool     `gorm:"default:false" json:"projective"`
	BankSize         int      `gorm:"default:0" json:"bank_size"`
	ItemsToApply     int      `gorm:"default:0" json:"items_to_apply"` // 0 = apply entire bank

	Questions []Question `gorm:"foreignKey:TestID" json:"questions,omitempty"`
}

// Question belongs to exactly one Test.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TestID    uint      `gorm:"index" json:"test_id"`
	Text      string    `json:"text"`
	Scale     ScaleType `gorm:"size:20" json:"scale"`
	Dimension Dimension `gorm:"size:10;default:GENERAL" json:"dimension"`
	Reversed  bool      `gorm:"default:false" json:"reversed"` // score becomes 6 - value
	Position  int       `gorm:"default:0" json:"position"`
	ImagePath string    `gorm:"size:300" json:"image_path,omitempty"`

	// ConsistencyPairID back-references a differently worded question measuring
	// the same construct. Used only for fraud detection, never ownership.
	ConsistencyPairID *uint `json:"consistency_pair_id,omitempty"`

	// CorrectSequence holds the digit sequence to recall for memory items.
	CorrectSequence datatypes.JSONSlice[int] `json:"correct_sequence,omitempty"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

// Option is one answer choice. Value is the Likert/matrix score; for matrix
// items value 1 marks the correct choice.
type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"index" json:"question_id"`
	Text       string `gorm:"size:500" json:"text"`
	Value      int    `json:"value"`
	ImagePath  string `gorm:"size:300" json:"image_path,omitempty"`
	Position   int    `gorm:"default:0" json:"position"`
}
