package cleaning

import (
	"sort"
	"time"

	"olistdw/pkg/records"
)

// CleanReviews coerces score and timestamps, deduplicates by review_id
// keeping the most recent answer, and blanks missing comment text.
//
// Dedup works by sorting ascending on (review_id, answer timestamp, creation
// timestamp) with a stable sort, then keeping the last row of each review_id
// run. Missing timestamps sort earliest, so any dated duplicate wins over an
// undated one.
func CleanReviews(recs []records.Record) []records.Record {
	for _, rec := range recs {
		if f, ok := toFloat(rec["review_score"]); ok {
			rec["review_score"] = f
		} else {
			rec["review_score"] = nil
		}
		coerceTime(rec, "review_creation_date")
		coerceTime(rec, "review_answer_timestamp")
		rec["review_comment_title"] = toString(rec["review_comment_title"])
		rec["review_comment_message"] = toString(rec["review_comment_message"])
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		ai, bi := toString(a["review_id"]), toString(b["review_id"])
		if ai != bi {
			return ai < bi
		}
		at, bt := sortTime(a, "review_answer_timestamp"), sortTime(b, "review_answer_timestamp")
		if !at.Equal(bt) {
			return at.Before(bt)
		}
		return sortTime(a, "review_creation_date").Before(sortTime(b, "review_creation_date"))
	})

	out := make([]records.Record, 0, len(recs))
	for i, rec := range recs {
		last := i == len(recs)-1 ||
			toString(recs[i+1]["review_id"]) != toString(rec["review_id"])
		if last {
			out = append(out, rec)
		}
	}
	return out
}

// sortTime reads a coerced date field for ordering; nil maps to the zero
// time so undated rows sort first.
func sortTime(rec records.Record, field string) time.Time {
	if ts, ok := rec[field].(time.Time); ok {
		return ts
	}
	return time.Time{}
}
