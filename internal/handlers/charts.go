package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/bambinounos/psicoeval/internal/repository"
)

// Comparative renders a bar chart of the composite indices across every
// finished evaluation, for side-by-side candidate comparison.
func (h *PanelHandler) Comparative(c *gin.Context) {
	evals, err := repository.FinishedEvaluations()
	if err != nil {
		abortWithError(c, err)
		return
	}
	ids := make([]uint, len(evals))
	for i, e := range evals {
		ids[i] = e.ID
	}
	results, err := repository.ResultsForEvaluations(ids)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var names []string
	var responsibility, loyalty, obedience []opts.BarData
	for _, e := range evals {
		r, ok := results[e.ID]
		if !ok {
			continue
		}
		names = append(names, e.FullName)
		responsibility = append(responsibility, opts.BarData{Value: r.ResponsibilityIndex})
		loyalty = append(loyalty, opts.BarData{Value: r.LoyaltyIndex})
		obedience = append(obedience, opts.BarData{Value: r.ObedienceIndex})
	}

	bar := generateComparativeChart(names, responsibility, loyalty, obedience)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := bar.Render(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func generateComparativeChart(names []string, responsibility, loyalty, obedience []opts.BarData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Comparativa de candidatos",
			Subtitle: "Índices compuestos (escala 0-5)",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Candidato",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Índice",
			Max:  5,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("Responsabilidad", responsibility).
		AddSeries("Lealtad", loyalty).
		AddSeries("Obediencia", obedience)
	return bar
}
