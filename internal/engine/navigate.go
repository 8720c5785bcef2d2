package engine

// GoToIndex moves to token k, clamped to the sequence. The clock is
// re-anchored at the token's due time so playback resumes exactly there.
func (e *Engine) GoToIndex(k int) {
	n := len(e.tokens)
	if n == 0 {
		return
	}
	k = clampIndex(k, n)
	e.clock = e.clock.Seek(e.schedule.Due(k), e.now())
	if k < n-1 && e.state == StateComplete {
		e.state = StatePaused
	}
	e.setIndex(k)
}

// SkipSentenceForward moves to the first token after the next sentence end,
// or to the last token when no sentence end follows.
func (e *Engine) SkipSentenceForward() {
	n := len(e.tokens)
	if n == 0 {
		return
	}
	for i := e.index + 1; i < n; i++ {
		if e.tokens[i-1].EndsSentence() {
			e.GoToIndex(i)
			return
		}
	}
	e.GoToIndex(n - 1)
}

// SkipSentenceBackward moves to the start of the current sentence. When
// already there it moves to the start of the previous sentence instead,
// like a media player's "previous" button pressed twice.
func (e *Engine) SkipSentenceBackward() {
	if len(e.tokens) == 0 {
		return
	}
	cur := e.index
	start := cur
	for i := cur - 1; i >= 0; i-- {
		if e.tokens[i].EndsSentence() {
			start = i + 1
			break
		}
		if i == 0 {
			start = 0
		}
	}
	if start != cur && cur != 0 {
		e.GoToIndex(start)
		return
	}
	for i := start - 2; i >= 0; i-- {
		if e.tokens[i].EndsSentence() {
			e.GoToIndex(i + 1)
			return
		}
	}
	e.GoToIndex(0)
}

// SkipToken steps one token in dir. Meant for use while paused.
func (e *Engine) SkipToken(dir Direction) {
	if dir == Backward {
		e.GoToIndex(e.index - 1)
		return
	}
	e.GoToIndex(e.index + 1)
}
