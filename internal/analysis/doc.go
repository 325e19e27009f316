// Package analysis summarizes escape-step histograms.
//
// A render's histogram counts escaped pixels per escape step; bounded
// pixels are counted separately. The package derives the figures shown by
// the CLI and stored with each render:
//
//   - [Summarize]: coverage, mean, median, mode and tail of the escape steps
//   - [Percentile]: escape step below which a fraction of escapes fall
//   - [Cumulative]: normalized cumulative distribution for plotting
//   - [Rebin]: histogram resampled to a plot width
//
// # Reading the numbers
//
// A low mean escape with high coverage means the view sits mostly inside
// the set; a long tail (P90 near the budget) means the view is on the
// boundary where detail lives:
//
//	sum := analysis.Summarize(hist, stats.Bounded)
//	if sum.P90 > maxIter/2 {
//	    // boundary-heavy view
//	}
package analysis
