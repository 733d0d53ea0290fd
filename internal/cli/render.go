package cli

import (
	"fmt"
	"strings"

	"github.com/mindsage/mindsage/internal/model"
	"github.com/mindsage/mindsage/internal/predict"
)

// barWidth is the width of the widest importance bar in a ranking chart.
const barWidth = 30

// RenderPrediction renders a served prediction as a boxed report.
func RenderPrediction(result *model.PredictionResult) string {
	var sb strings.Builder

	labelStyle := SuccessStyle
	if result.Label == model.LabelYes {
		labelStyle = WarningStyle
	}

	sb.WriteString(fmt.Sprintf("Prediction:  %s\n", labelStyle.Render(string(result.Label))))
	sb.WriteString(fmt.Sprintf("Confidence:  %s\n", renderConfidence(result.Confidence)))
	sb.WriteString(fmt.Sprintf("P(yes):      %.1f%%\n", result.ProbabilityYes*100))
	sb.WriteString(fmt.Sprintf("P(no):       %.1f%%\n", result.ProbabilityNo*100))

	if len(result.TopFactors) > 0 {
		sb.WriteString("\n" + BoldStyle.Render("Top contributing factors") + "\n")
		for i, factor := range result.TopFactors {
			marker := SubtleStyle.Render("↓")
			if factor.Direction == model.DirectionPositive {
				marker = InfoStyle.Render("↑")
			}
			sb.WriteString(fmt.Sprintf("  %d. %s %-40s impact %.4f\n",
				i+1, marker, factor.Feature, factor.ImpactScore))
		}
	}

	return RenderBox(BrainIcon+" Prediction", strings.TrimRight(sb.String(), "\n"))
}

// RenderInsights renders bundle metrics and the global importance chart.
func RenderInsights(insights *predict.Insights) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:           %s\n", insights.RunID))
	sb.WriteString(fmt.Sprintf("Fitted:        %s\n", insights.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Samples:       %d (%.1f%% positive)\n",
		insights.DatasetInfo.TotalSamples, insights.DatasetInfo.PositiveRate*100))
	sb.WriteString(fmt.Sprintf("Features:      %d\n", insights.DatasetInfo.FeaturesUsed))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Test ROC-AUC:  %.4f\n", insights.Metrics.TestROCAUC))
	sb.WriteString(fmt.Sprintf("Test F1:       %.4f\n", insights.Metrics.TestF1))
	sb.WriteString(fmt.Sprintf("CV ROC-AUC:    %.4f ± %.4f\n",
		insights.Metrics.CVROCAUCMean, insights.Metrics.CVROCAUCStd))

	if len(insights.TopFeatures) > 0 {
		sb.WriteString("\n" + BoldStyle.Render("Global feature importance") + "\n")
		sb.WriteString(RenderImportanceBars(insights.TopFeatures))
	}

	return RenderBox(ChartIcon+" Model Insights", strings.TrimRight(sb.String(), "\n"))
}

// RenderImportanceBars renders a ranking as a horizontal bar chart, scaled
// so the top feature fills the full bar width.
func RenderImportanceBars(ranking []model.FeatureImportance) string {
	if len(ranking) == 0 {
		return ""
	}

	maxImportance := ranking[0].Importance
	for _, feat := range ranking {
		if feat.Importance > maxImportance {
			maxImportance = feat.Importance
		}
	}

	var sb strings.Builder
	for _, feat := range ranking {
		width := 0
		if maxImportance > 0 {
			width = int(feat.Importance / maxImportance * barWidth)
		}
		bar := BarStyle.Render(strings.Repeat("█", width))
		sb.WriteString(fmt.Sprintf("  %-40s %s %.4f\n", truncate(feat.Feature, 40), bar, feat.Importance))
	}
	return sb.String()
}

// RenderConfusion renders a 2x2 confusion matrix.
func RenderConfusion(c model.Confusion) string {
	var sb strings.Builder
	sb.WriteString(TableHeaderStyle.Render("              Pred No   Pred Yes") + "\n")
	sb.WriteString(fmt.Sprintf("  Actual No   %7d   %8d\n", c.TrueNegative, c.FalsePositive))
	sb.WriteString(fmt.Sprintf("  Actual Yes  %7d   %8d\n", c.FalseNegative, c.TruePositive))
	return sb.String()
}

// RenderBundleList renders persisted fitting runs as a table, newest first.
func RenderBundleList(infos []model.BundleInfo) string {
	if len(infos) == 0 {
		return FormatInfo("No fitted bundles yet. Run 'mindsage train' first.")
	}

	var sb strings.Builder
	sb.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-38s %-20s %9s %9s",
		"RUN", "FITTED", "FEATURES", "ROC-AUC")) + "\n")
	for _, info := range infos {
		sb.WriteString(fmt.Sprintf("%-38s %-20s %9d %9.4f\n",
			info.RunID,
			info.CreatedAt.Format("2006-01-02 15:04:05"),
			info.FeatureCount,
			info.TestROCAUC))
	}

	return RenderBox(FolderIcon+" Bundles", strings.TrimRight(sb.String(), "\n"))
}

func renderConfidence(c model.Confidence) string {
	switch c {
	case model.ConfidenceHigh:
		return SuccessStyle.Render(string(c))
	case model.ConfidenceMedium:
		return WarningStyle.Render(string(c))
	default:
		return SubtleStyle.Render(string(c))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
