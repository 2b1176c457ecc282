// Package analytics implements the filtering and aggregation pipeline that
// powers the sales dashboard: conjunctive facet filtering over the loaded
// record set, single- and two-key aggregation with percentage
// normalization, calendar bucketing with trailing moving-average smoothing,
// and descending-contribution (Pareto) ranking.
//
// Every function in this package is a pure function of its inputs. A query
// either fails fast on a malformed descriptor (unknown field, inverted
// range, bad granularity) or runs to completion; degenerate inputs such as
// an empty filtered view, a zero-total denominator, or insufficient
// smoothing history produce defined outputs rather than errors.
package analytics
