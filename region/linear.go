package region

// firstFit returns the lowest index in [start, last] that begins count bits
// equal to value.
func (s *Scanner) firstFit(start, last, count int, value bool) int {
	for i := start; i <= last; i++ {
		if !s.vec.Contains(i, count, !value) {
			return i
		}
	}

	return NotFound
}

// nextFit picks up where the previous successful scan left off, walking from
// the cursor to the top of the vector and then wrapping around to start. The
// wrap revisits the cursor position itself before giving up, capped so no
// probe runs past the last permissible index.
func (s *Scanner) nextFit(start, last, count int, value bool) int {
	for i := s.cursor; i <= last; i++ {
		if !s.vec.Contains(i, count, !value) {
			s.cursor = i
			return i
		}
	}

	wrapLast := s.cursor
	if wrapLast > last {
		wrapLast = last
	}
	for i := start; i <= wrapLast; i++ {
		if !s.vec.Contains(i, count, !value) {
			s.cursor = i
			return i
		}
	}

	return NotFound
}
