package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/sententia/internal/heuristics"
	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

func parse(pos morph.PartOfSpeech, lemma string, readings ...string) morph.CandidateParse {
	return morph.CandidateParse{POS: pos, Lemma: lemma, Readings: readings}
}

func noun(readings ...string) morph.CandidateParse { return parse(morph.POSNoun, "", readings...) }
func adj(readings ...string) morph.CandidateParse  { return parse(morph.POSAdjective, "", readings...) }
func verb(readings ...string) morph.CandidateParse { return parse(morph.POSVerb, "", readings...) }

func tok(clean string, ps ...morph.CandidateParse) *sentence.Word {
	return sentence.NewWord(0, clean, clean, ps)
}

func puellaAmbulat() *Engine {
	return New(sentence.New("puella ambulat", []*sentence.Word{
		tok("puella", noun("NOM S F")),
		tok("ambulat", verb("PRES ACTIVE IND 3 S")),
	}))
}

func romaePuella() *Engine {
	return New(sentence.New("romae puella", []*sentence.Word{
		tok("romae", noun("GEN S F")),
		tok("puella", noun("NOM S F", "ABL S F")),
	}))
}

func puellamBonam() *Engine {
	return New(sentence.New("puellam bonam", []*sentence.Word{
		tok("puellam", noun("ACC S F", "ABL S F")),
		tok("bonam", adj("ACC S F", "ABL S F")),
	}))
}

func puellaque() *Engine {
	p := noun("NOM S F")
	p.Modifications = []morph.Modification{{Kind: morph.POSTackon, Form: "que"}}
	return New(sentence.New("puellaque", []*sentence.Word{tok("puellaque", p)}))
}

func snapshot(t *testing.T, e *Engine) string {
	t.Helper()
	data, err := sentence.Encode(e.Sentence(), time.Unix(0, 0))
	require.NoError(t, err)
	return string(data)
}

func TestRunAllResolvesSubject(t *testing.T) {
	e := puellaAmbulat()
	r, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, len(heuristics.All()), r.Passes)
	assert.Positive(t, r.Changes)
	puella := e.Sentence().At(0)
	assert.Equal(t, sentence.KindSubject, puella.Kind)
	assert.True(t, e.Sentence().At(1).HasDependent(0))
}

func TestRunAllIsIdempotent(t *testing.T) {
	e := romaePuella()
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	first := snapshot(t, e)

	r, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, r.Changes)
	assert.Equal(t, first, snapshot(t, e))
}

func TestGuessedNounDoesNotLicensePossession(t *testing.T) {
	e := New(sentence.New("rosae regina ambulat", []*sentence.Word{
		tok("rosae", noun("GEN S F")),
		tok("regina", noun("NOM S F"), parse(morph.POSPronoun, "", "NOM S F")),
		tok("ambulat", verb("PRES ACTIVE IND 3 S")),
	}))
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	first := snapshot(t, e)
	require.True(t, e.Sentence().At(1).Guessed)

	_, err = e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, first, snapshot(t, e))
	assert.False(t, e.Sentence().At(0).HasAnnotation(sentence.AnnotationPossession, 1))
}

func TestRunAllIsDeterministic(t *testing.T) {
	a, b := puellaAmbulat(), puellaAmbulat()
	_, err := a.RunAll(context.Background(), nil)
	require.NoError(t, err)
	_, err = b.RunAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, snapshot(t, a), snapshot(t, b))
}

func TestCheckpointCalledBetweenPasses(t *testing.T) {
	e := puellaAmbulat()
	var names []string
	_, err := e.RunAll(context.Background(), func(pass string, done, total int) {
		names = append(names, pass)
		assert.Equal(t, len(heuristics.All()), total)
		assert.Equal(t, len(names), done)
	})
	require.NoError(t, err)
	assert.Equal(t, heuristics.Names(), names)
}

func TestRunAllStopsWhenCanceled(t *testing.T) {
	e := puellaAmbulat()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	r, err := e.RunAll(ctx, func(string, int, int) {
		calls++
		if calls == 2 {
			cancel()
		}
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, r.Passes)
}

func TestRunPass(t *testing.T) {
	e := romaePuella()
	r, err := e.RunPass("genitive-possession")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Passes)
	assert.Equal(t, 1, r.Changes)

	_, err = e.RunPass("no-such-pass")
	assert.ErrorIs(t, err, ErrUnknownPass)
}

func TestRunRangeValidatesBounds(t *testing.T) {
	e := puellaAmbulat()
	_, err := e.RunRange(context.Background(), 1, 0, nil)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = e.RunRange(context.Background(), 0, 5, nil)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = e.RunRange(context.Background(), 0, 0, nil)
	require.NoError(t, err)
	assert.False(t, e.Sentence().At(0).Resolved(), "verb outside the range is invisible")
}

func TestSelectErrors(t *testing.T) {
	e := puellaAmbulat()
	assert.ErrorIs(t, e.Select(9, 0, "NOM S F"), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.Select(0, 3, "NOM S F"), ErrNoSuchParse)
	assert.ErrorIs(t, e.Select(0, 0, "GEN P M"), ErrNoSuchReading)
	assert.ErrorIs(t, e.Override(0, "XYZ", ""), ErrNoSuchParse)
	assert.ErrorIs(t, e.Reject(0, ""), ErrEmptyInference)
}

func TestOverrideStripsDependentGuess(t *testing.T) {
	e := puellaAmbulat()
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, e.Sentence().At(0).Resolved())

	require.NoError(t, e.Override(1, morph.POSAdverb, ""))
	ambulat := e.Sentence().At(1)
	assert.True(t, ambulat.Manual())
	assert.Equal(t, "Manual override", ambulat.Rationale)
	require.NotNil(t, ambulat.Override)
	assert.False(t, e.Sentence().At(0).Resolved(), "subject guess relied on the verb")
	assert.Empty(t, ambulat.Dependents())
}

func TestOverrideKeepsConfirmedWords(t *testing.T) {
	e := puellaAmbulat()
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, e.Confirm(0))

	require.NoError(t, e.Override(1, morph.POSAdverb, ""))
	puella := e.Sentence().At(0)
	assert.True(t, puella.Manual())
	assert.Equal(t, "NOM S F", puella.Reading)
}

func TestRejectPossessionSurvivesRunAll(t *testing.T) {
	e := romaePuella()
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	romae := e.Sentence().At(0)
	require.True(t, romae.HasAnnotation(sentence.AnnotationPossession, 1))

	require.NoError(t, e.Reject(0, "possession-1"))
	assert.False(t, romae.Resolved())
	assert.False(t, romae.HasAnnotation(sentence.AnnotationPossession, 1))
	assert.False(t, e.Sentence().At(1).HasDependent(0))

	_, err = e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, romae.HasAnnotation(sentence.AnnotationPossession, 1))
	_, err = e.RunIncremental(1)
	require.NoError(t, err)
	assert.False(t, romae.HasAnnotation(sentence.AnnotationPossession, 1))
	assert.True(t, romae.IsRejected("possession-1"))
}

func TestRerunClearsRejections(t *testing.T) {
	e := romaePuella()
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, e.Reject(0, "possession-1"))

	_, err = e.Rerun(context.Background(), nil)
	require.NoError(t, err)
	romae := e.Sentence().At(0)
	assert.Empty(t, romae.Rejections())
	assert.True(t, romae.HasAnnotation(sentence.AnnotationPossession, 1))
}

func TestReanalyzeKeepsManualState(t *testing.T) {
	e := puellaAmbulat()
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, e.Select(1, 0, "PRES ACTIVE IND 3 S"))
	require.NoError(t, e.Reject(0, "subject-1"))
	require.False(t, e.Sentence().At(0).Resolved())

	_, err = e.Reanalyze(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, e.Sentence().At(1).Manual())
	assert.Equal(t, sentence.KindSubject, e.Sentence().At(0).Kind, "rejection cleared")
}

func TestSelectChangingCaseStripsAgreement(t *testing.T) {
	e := puellamBonam()
	require.NoError(t, e.Select(0, 0, "ACC S F"))
	_, err := e.RunIncremental(0)
	require.NoError(t, err)

	bonam := e.Sentence().At(1)
	require.True(t, bonam.Resolved())
	assert.Equal(t, "ACC S F", bonam.Reading)
	assert.Equal(t, 0, bonam.Anchor)

	require.NoError(t, e.Select(0, 0, "ABL S F"))
	assert.False(t, bonam.Resolved())
	assert.Empty(t, bonam.Annotations)

	_, err = e.RunIncremental(0)
	require.NoError(t, err)
	assert.Equal(t, "ABL S F", bonam.Reading)
}

func TestSelectLeavesUnrelatedInference(t *testing.T) {
	e := romaePuella()
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)

	// possession relies only on the owner being a noun
	require.NoError(t, e.Select(1, 0, "ABL S F"))
	romae := e.Sentence().At(0)
	assert.True(t, romae.HasAnnotation(sentence.AnnotationPossession, 1))
	assert.True(t, romae.Resolved())

	require.NoError(t, e.Override(1, morph.POSAdjective, "ABL S F"))
	assert.False(t, romae.HasAnnotation(sentence.AnnotationPossession, 1))
	assert.False(t, romae.Resolved())
}

func TestUnselect(t *testing.T) {
	e := puellaAmbulat()
	require.NoError(t, e.Select(1, 0, "PRES ACTIVE IND 3 S"))
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, e.Sentence().At(0).Resolved())

	require.NoError(t, e.Unselect(1))
	assert.False(t, e.Sentence().At(1).Resolved())
	assert.False(t, e.Sentence().At(0).Resolved())
}

func TestConfirmClearsGuessedFlags(t *testing.T) {
	e := puellaque()
	w := e.Sentence().At(0)
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, w.HasEt)
	require.True(t, w.EtGuessed)

	require.NoError(t, e.Confirm(0))
	assert.False(t, w.EtGuessed)

	require.NoError(t, e.Reject(0, "enclitic"))
	assert.True(t, w.HasEt, "confirmed flag is manual")
}

func TestRejectEnclitic(t *testing.T) {
	e := puellaque()
	w := e.Sentence().At(0)
	_, err := e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, w.HasEt)

	require.NoError(t, e.Reject(0, "enclitic"))
	assert.False(t, w.HasEt)
	_, err = e.RunAll(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, w.HasEt)
}

func TestChangedCategories(t *testing.T) {
	w := tok("puella", noun("NOM S F", "ABL S F"))
	assert.Zero(t, changedCategories(w, nil, ""))

	w.Resolve(noun("NOM S F", "ABL S F"), "NOM S F", false, sentence.KindManual, sentence.NoAnchor, "")
	assert.Equal(t, sentence.CatCase, changedCategories(w, nil, ""))

	before := noun("NOM S F", "ABL S F")
	assert.Zero(t, changedCategories(w, &before, "NOM S F"))
	assert.Equal(t, sentence.CatCase, changedCategories(w, &before, "ABL S F"))

	other := adj("NOM S F")
	assert.Equal(t, sentence.CatAll, changedCategories(w, &other, "NOM S F"))

	w.ClearResolution()
	assert.Equal(t, sentence.CatAll, changedCategories(w, &before, "NOM S F"))
}
