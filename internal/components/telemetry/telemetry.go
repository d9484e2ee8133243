package telemetry

// API is what every component reports through instead of logging directly,
// tests swap it for a TestAPI and assert on what was reported.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a component that failed in a way that needs fixing:
	// the report markup changed, a credential was rejected, a sink is down.
	//
	// The id names the component and method (`paginator.next`), not the
	// specific failure. Put specifics in params or wrap the error. Ids are
	// lowercase, dot separated and never say "broken" or "failed" since the
	// method already does.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something worth a look that the run survives: a
	// dropped row, a missed geocode, schema drift.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information only useful when debugging.
	ReportDebug(msg string, params ...any)

	// ReportCount reports a count observed at this point in time, counts are
	// samples and are not meant to be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, nesting scopes joins their
// namespaces with a dot.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	if scoped, ok := inner.(ScopedAPI); ok {
		return ScopedAPI{
			namespace: scoped.namespace + "." + namespace,
			inner:     scoped.inner,
		}
	}
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) Namespace() string {
	return s.namespace
}

func (s ScopedAPI) id(id string) string {
	return s.namespace + "." + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.id(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.id(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug("["+s.namespace+"] "+msg, params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.id(id), count)
}
