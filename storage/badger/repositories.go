package badger

import "errors"

// Repositories bundles the repositories sharing one Backend.
type Repositories struct {
	Backend    *Backend
	Candidates *CandidateRepository
	Jobs       *JobRepository
	Matches    *MatchRepository
}

// OpenRepositories opens a backend and creates every repository on top of it.
func OpenRepositories(filePath string, inMemory bool, opts ...BackendOption) (*Repositories, error) {
	backend, err := OpenBackend(filePath, inMemory, opts...)
	if err != nil {
		return nil, err
	}

	candidates, err := NewCandidateRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	jobs, err := NewJobRepository(backend)
	if err != nil {
		candidates.Close()
		backend.Close()
		return nil, err
	}

	matches, err := NewMatchRepository(backend)
	if err != nil {
		jobs.Close()
		candidates.Close()
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Backend:    backend,
		Candidates: candidates,
		Jobs:       jobs,
		Matches:    matches,
	}, nil
}

// Close releases the repositories and then the backend.
func (r *Repositories) Close() error {
	return errors.Join(
		r.Matches.Close(),
		r.Jobs.Close(),
		r.Candidates.Close(),
		r.Backend.Close(),
	)
}
