package routing

// CandidateCapacity is the number of neighbors a message is sent to at most
// in one cycle.
const CandidateCapacity = 3

// A Candidate is a connection together with its goodness score.
type Candidate struct {
	Conn  Connection
	Score float64
}

// CandidateSet keeps the best scoring candidates for one message. Entries are
// sorted by ascending score, so the weakest one is always at index 0.
type CandidateSet struct {
	entries  [CandidateCapacity]Candidate
	size     int
	minScore float64
}

// NewCandidateSet creates an empty CandidateSet.
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{}
}

// Reset empties the set and restores the admission threshold to 0.
func (s *CandidateSet) Reset() {
	s.entries = [CandidateCapacity]Candidate{}
	s.size = 0
	s.minScore = 0
}

// Len returns the number of candidates held.
func (s *CandidateSet) Len() int {
	return s.size
}

// MinScore returns the current admission threshold.
func (s *CandidateSet) MinScore() float64 {
	return s.minScore
}

// Offer admits the candidate if its score is not lower than MinScore. A full
// set evicts its weakest entry first. It returns whether the candidate was
// admitted.
func (s *CandidateSet) Offer(conn Connection, score float64) bool {
	if score < s.minScore {
		return false
	}

	if s.size == CandidateCapacity {
		copy(s.entries[:], s.entries[1:s.size])
		s.size--
	}

	pos := s.size
	for pos > 0 && s.entries[pos-1].Score > score {
		s.entries[pos] = s.entries[pos-1]
		pos--
	}

	s.entries[pos] = Candidate{Conn: conn, Score: score}
	s.size++

	// Until the set is full every candidate is welcome.
	if s.size == CandidateCapacity {
		s.minScore = s.entries[0].Score
	}

	return true
}

// Candidates returns the held candidates, weakest first.
func (s *CandidateSet) Candidates() []Candidate {
	out := make([]Candidate, s.size)
	copy(out, s.entries[:s.size])

	return out
}

// Connections returns the connections of the held candidates, weakest first.
func (s *CandidateSet) Connections() []Connection {
	out := make([]Connection, s.size)
	for i := 0; i < s.size; i++ {
		out[i] = s.entries[i].Conn
	}

	return out
}
