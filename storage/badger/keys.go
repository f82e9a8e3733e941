package badger

import (
	"encoding/binary"

	"github.com/poiesic/talentmatch/core"
)

// Key prefixes for different data types
const (
	candidateRecordPrefix = "candrec"
	candidateIDSeq        = "candrecseq"
	jobRecordPrefix       = "jobrec"
	jobActivePrefix       = "jobact"
	jobIDSeq              = "jobrecseq"
	matchRecordPrefix     = "matrec"
)

// makeIDKey generates a key of the form prefix:id.
// IDs are written in BigEndian order so iteration follows ID order.
func makeIDKey(prefix string, id core.ID) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeCandidateKey generates a key for a candidate profile by ID.
func makeCandidateKey(id core.ID) []byte {
	return makeIDKey(candidateRecordPrefix, id)
}

// makeJobKey generates a key for a job posting by ID.
func makeJobKey(id core.ID) []byte {
	return makeIDKey(jobRecordPrefix, id)
}

// makeJobActiveKey generates a key for the active posting index.
func makeJobActiveKey(id core.ID) []byte {
	return makeIDKey(jobActivePrefix, id)
}

// makePartialMatchKey generates the prefix shared by every result of one query entity.
// Format: prefix:direction:queryID
func makePartialMatchKey(direction core.Direction, queryID core.ID) []byte {
	prefixBytes := []byte(matchRecordPrefix + ":")
	buf := make([]byte, len(prefixBytes)+1+8)
	offset := copy(buf, prefixBytes)
	buf[offset] = byte(direction)
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(queryID))
	return buf
}

// makeMatchKey generates a composite key for a match result.
// Format: prefix:direction:queryID:documentID
func makeMatchKey(key core.MatchKey) []byte {
	queryID, docID := key.CandidateId, key.JobId
	if key.Direction == core.JobToCandidates {
		queryID, docID = key.JobId, key.CandidateId
	}
	partial := makePartialMatchKey(key.Direction, queryID)
	buf := make([]byte, len(partial)+8)
	offset := copy(buf, partial)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

