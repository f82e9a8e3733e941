package core

import (
	"errors"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// ErrMalformedRecord indicates encoded bytes that do not describe a valid record.
var ErrMalformedRecord = errors.New("malformed record encoding")

// serializer is the method set shared by mus-go serializers.
type serializer[T any] interface {
	Marshal(v T, bs []byte) (n int)
	Unmarshal(bs []byte) (v T, n int, err error)
	Size(v T) (size int)
}

// Exported serializers for the persisted domain records.
var (
	IDMUS               = idMUS{}
	CandidateProfileMUS = candidateProfileMUS{}
	JobPostingMUS       = jobPostingMUS{}
	MatchResultMUS      = matchResultMUS{}

	// VectorMUS encodes an embedding on its own, for caches.
	VectorMUS = sliceMUS[float32]{elem: raw.Float32}
)

var (
	stringsMUS  = sliceMUS[string]{elem: ord.String}
	optFloatMUS = ptrMUS[float64]{elem: raw.Float64}
	timeMUS     = timeMicroMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) int { return varint.Uint64.Marshal(uint64(v), bs) }
func (idMUS) Size(v ID) int               { return varint.Uint64.Size(uint64(v)) }
func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

// timeMicroMUS encodes a time as Unix microseconds and decodes it in UTC.
type timeMicroMUS struct{}

func (timeMicroMUS) Marshal(v time.Time, bs []byte) int { return varint.Int64.Marshal(v.UnixMicro(), bs) }
func (timeMicroMUS) Size(v time.Time) int               { return varint.Int64.Size(v.UnixMicro()) }
func (timeMicroMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

type sliceMUS[T any] struct {
	elem serializer[T]
}

func (s sliceMUS[T]) Marshal(v []T, bs []byte) int {
	n := varint.Int.Marshal(len(v), bs)
	for _, e := range v {
		n += s.elem.Marshal(e, bs[n:])
	}
	return n
}

func (s sliceMUS[T]) Size(v []T) int {
	size := varint.Int.Size(len(v))
	for _, e := range v {
		size += s.elem.Size(e)
	}
	return size
}

func (s sliceMUS[T]) Unmarshal(bs []byte) ([]T, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 || length > len(bs)-n {
		return nil, n, ErrMalformedRecord
	}
	if length == 0 {
		return nil, n, nil
	}
	out := make([]T, length)
	for i := range out {
		e, m, err := s.elem.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		out[i] = e
	}
	return out, n, nil
}

type ptrMUS[T any] struct {
	elem serializer[T]
}

func (p ptrMUS[T]) Marshal(v *T, bs []byte) int {
	n := ord.Bool.Marshal(v != nil, bs)
	if v != nil {
		n += p.elem.Marshal(*v, bs[n:])
	}
	return n
}

func (p ptrMUS[T]) Size(v *T) int {
	size := ord.Bool.Size(v != nil)
	if v != nil {
		size += p.elem.Size(*v)
	}
	return size
}

func (p ptrMUS[T]) Unmarshal(bs []byte) (*T, int, error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return nil, n, err
	}
	v, m, err := p.elem.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return nil, n, err
	}
	return &v, n, nil
}

// musWriter and musReader thread the offset through a sequence of fields.
type musWriter struct {
	bs []byte
	n  int
}

func put[T any](w *musWriter, s serializer[T], v T) {
	w.n += s.Marshal(v, w.bs[w.n:])
}

type musReader struct {
	bs  []byte
	n   int
	err error
}

func get[T any](r *musReader, s serializer[T]) T {
	var zero T
	if r.err != nil {
		return zero
	}
	if r.n > len(r.bs) {
		r.err = ErrMalformedRecord
		return zero
	}
	v, n, err := s.Unmarshal(r.bs[r.n:])
	r.n += n
	if err != nil {
		r.err = err
		return zero
	}
	return v
}

func getInt(r *musReader) int       { return get[int](r, varint.Int) }
func getBool(r *musReader) bool     { return get[bool](r, ord.Bool) }
func getString(r *musReader) string { return get[string](r, ord.String) }

type candidateProfileMUS struct{}

func (candidateProfileMUS) Marshal(v CandidateProfile, bs []byte) int {
	w := &musWriter{bs: bs}
	put[ID](w, IDMUS, v.Id)
	put[string](w, ord.String, v.Headline)
	put[string](w, ord.String, v.Summary)
	put[string](w, ord.String, v.ResumeText)
	put[[]string](w, stringsMUS, v.Skills)
	put[int](w, varint.Int, v.ExperienceYears)
	put[int](w, varint.Int, v.ExperienceEntries)
	put[int](w, varint.Int, int(v.Education))
	put[[]string](w, stringsMUS, v.Certifications)
	put[string](w, ord.String, v.Location)
	put[bool](w, ord.Bool, v.RemotePreference)
	put[*float64](w, optFloatMUS, v.SalaryExpectation)
	put[[]float32](w, VectorMUS, v.Vector)
	put[time.Time](w, timeMUS, v.InsertedAt)
	put[time.Time](w, timeMUS, v.UpdatedAt)
	return w.n
}

func (candidateProfileMUS) Size(v CandidateProfile) int {
	return IDMUS.Size(v.Id) +
		ord.String.Size(v.Headline) +
		ord.String.Size(v.Summary) +
		ord.String.Size(v.ResumeText) +
		stringsMUS.Size(v.Skills) +
		varint.Int.Size(v.ExperienceYears) +
		varint.Int.Size(v.ExperienceEntries) +
		varint.Int.Size(int(v.Education)) +
		stringsMUS.Size(v.Certifications) +
		ord.String.Size(v.Location) +
		ord.Bool.Size(v.RemotePreference) +
		optFloatMUS.Size(v.SalaryExpectation) +
		VectorMUS.Size(v.Vector) +
		timeMUS.Size(v.InsertedAt) +
		timeMUS.Size(v.UpdatedAt)
}

func (candidateProfileMUS) Unmarshal(bs []byte) (CandidateProfile, int, error) {
	r := &musReader{bs: bs}
	v := CandidateProfile{
		Id:                get[ID](r, IDMUS),
		Headline:          getString(r),
		Summary:           getString(r),
		ResumeText:        getString(r),
		Skills:            get[[]string](r, stringsMUS),
		ExperienceYears:   getInt(r),
		ExperienceEntries: getInt(r),
		Education:         EducationLevel(getInt(r)),
		Certifications:    get[[]string](r, stringsMUS),
		Location:          getString(r),
		RemotePreference:  getBool(r),
		SalaryExpectation: get[*float64](r, optFloatMUS),
		Vector:            get[[]float32](r, VectorMUS),
		InsertedAt:        get[time.Time](r, timeMUS),
		UpdatedAt:         get[time.Time](r, timeMUS),
	}
	if r.err != nil {
		return CandidateProfile{}, r.n, r.err
	}
	return v, r.n, nil
}

type jobPostingMUS struct{}

func (jobPostingMUS) Marshal(v JobPosting, bs []byte) int {
	w := &musWriter{bs: bs}
	put[ID](w, IDMUS, v.Id)
	put[string](w, ord.String, v.Title)
	put[string](w, ord.String, v.Description)
	put[string](w, ord.String, v.Requirements)
	put[string](w, ord.String, v.Responsibilities)
	put[[]string](w, stringsMUS, v.RequiredSkills)
	put[[]string](w, stringsMUS, v.PreferredSkills)
	put[int](w, varint.Int, v.RequiredExperienceYears)
	put[int](w, varint.Int, int(v.RequiredEducation))
	put[[]string](w, stringsMUS, v.RequiredCertifications)
	put[string](w, ord.String, v.Location)
	put[bool](w, ord.Bool, v.Remote)
	put[*float64](w, optFloatMUS, v.Salary.Min)
	put[*float64](w, optFloatMUS, v.Salary.Max)
	put[int](w, varint.Int, int(v.Status))
	put[[]float32](w, VectorMUS, v.Vector)
	put[time.Time](w, timeMUS, v.InsertedAt)
	put[time.Time](w, timeMUS, v.UpdatedAt)
	return w.n
}

func (jobPostingMUS) Size(v JobPosting) int {
	return IDMUS.Size(v.Id) +
		ord.String.Size(v.Title) +
		ord.String.Size(v.Description) +
		ord.String.Size(v.Requirements) +
		ord.String.Size(v.Responsibilities) +
		stringsMUS.Size(v.RequiredSkills) +
		stringsMUS.Size(v.PreferredSkills) +
		varint.Int.Size(v.RequiredExperienceYears) +
		varint.Int.Size(int(v.RequiredEducation)) +
		stringsMUS.Size(v.RequiredCertifications) +
		ord.String.Size(v.Location) +
		ord.Bool.Size(v.Remote) +
		optFloatMUS.Size(v.Salary.Min) +
		optFloatMUS.Size(v.Salary.Max) +
		varint.Int.Size(int(v.Status)) +
		VectorMUS.Size(v.Vector) +
		timeMUS.Size(v.InsertedAt) +
		timeMUS.Size(v.UpdatedAt)
}

func (jobPostingMUS) Unmarshal(bs []byte) (JobPosting, int, error) {
	r := &musReader{bs: bs}
	v := JobPosting{
		Id:                      get[ID](r, IDMUS),
		Title:                   getString(r),
		Description:             getString(r),
		Requirements:            getString(r),
		Responsibilities:        getString(r),
		RequiredSkills:          get[[]string](r, stringsMUS),
		PreferredSkills:         get[[]string](r, stringsMUS),
		RequiredExperienceYears: getInt(r),
		RequiredEducation:       EducationLevel(getInt(r)),
		RequiredCertifications:  get[[]string](r, stringsMUS),
		Location:                getString(r),
		Remote:                  getBool(r),
		Salary: SalaryRange{
			Min: get[*float64](r, optFloatMUS),
			Max: get[*float64](r, optFloatMUS),
		},
		Status:     JobStatus(getInt(r)),
		Vector:     get[[]float32](r, VectorMUS),
		InsertedAt: get[time.Time](r, timeMUS),
		UpdatedAt:  get[time.Time](r, timeMUS),
	}
	if r.err != nil {
		return JobPosting{}, r.n, r.err
	}
	return v, r.n, nil
}

type matchResultMUS struct{}

func (matchResultMUS) Marshal(v MatchResult, bs []byte) int {
	w := &musWriter{bs: bs}
	put[ID](w, IDMUS, v.CandidateId)
	put[ID](w, IDMUS, v.JobId)
	put[int](w, varint.Int, int(v.Direction))
	for _, f := range v.scores() {
		put[float64](w, raw.Float64, f)
	}
	put[string](w, ord.String, string(v.Quality))
	put[[]string](w, stringsMUS, v.MatchedSkills)
	put[[]string](w, stringsMUS, v.MissingSkills)
	put[bool](w, ord.Bool, v.MustHaveCompliance)
	put[int](w, varint.Int, v.ExperienceGap)
	put[float64](w, raw.Float64, v.SalaryGap)
	put[time.Time](w, timeMUS, v.ComputedAt)
	return w.n
}

func (matchResultMUS) Size(v MatchResult) int {
	size := IDMUS.Size(v.CandidateId) + IDMUS.Size(v.JobId) + varint.Int.Size(int(v.Direction))
	for _, f := range v.scores() {
		size += raw.Float64.Size(f)
	}
	return size +
		ord.String.Size(string(v.Quality)) +
		stringsMUS.Size(v.MatchedSkills) +
		stringsMUS.Size(v.MissingSkills) +
		ord.Bool.Size(v.MustHaveCompliance) +
		varint.Int.Size(v.ExperienceGap) +
		raw.Float64.Size(v.SalaryGap) +
		timeMUS.Size(v.ComputedAt)
}

func (matchResultMUS) Unmarshal(bs []byte) (MatchResult, int, error) {
	r := &musReader{bs: bs}
	v := MatchResult{
		CandidateId: get[ID](r, IDMUS),
		JobId:       get[ID](r, IDMUS),
		Direction:   Direction(getInt(r)),
	}
	for _, f := range v.scoreFields() {
		*f = get[float64](r, raw.Float64)
	}
	v.Quality = Quality(getString(r))
	v.MatchedSkills = get[[]string](r, stringsMUS)
	v.MissingSkills = get[[]string](r, stringsMUS)
	v.MustHaveCompliance = getBool(r)
	v.ExperienceGap = getInt(r)
	v.SalaryGap = get[float64](r, raw.Float64)
	v.ComputedAt = get[time.Time](r, timeMUS)
	if r.err != nil {
		return MatchResult{}, r.n, r.err
	}
	return v, r.n, nil
}

// scores and scoreFields list the float score fields in encoding order.
func (m *MatchResult) scores() []float64 {
	return []float64{m.Lexical, m.Semantic, m.SkillOverlap, m.Hybrid, m.Traditional, m.Final,
		m.Experience, m.Education, m.Location, m.Salary, m.Certification}
}

func (m *MatchResult) scoreFields() []*float64 {
	return []*float64{&m.Lexical, &m.Semantic, &m.SkillOverlap, &m.Hybrid, &m.Traditional, &m.Final,
		&m.Experience, &m.Education, &m.Location, &m.Salary, &m.Certification}
}
