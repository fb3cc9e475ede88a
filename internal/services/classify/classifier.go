package classify

import (
	"strings"

	"AlphaLabs/internal/domain/models"
)

// GenericSpeaker is reported when an institution matched but no official's
// name appears in the text.
const GenericSpeaker = "Official"

// Classifier decides whether a raw news item is genuine central-bank content,
// and if so which institution, speaker and content type it concerns.
// Classification is a pure function of the input text; identical text always
// yields an identical result, which makes retention de-duplication idempotent.
type Classifier struct {
	institutions []InstitutionRule
}

// New builds a classifier with the default institution table.
func New() *Classifier {
	return &Classifier{institutions: DefaultInstitutions()}
}

// NewWithRules builds a classifier with a caller-supplied table. Table order
// is the institution tie-break.
func NewWithRules(rules []InstitutionRule) *Classifier {
	return &Classifier{institutions: rules}
}

// Classify scores text against the rule tables. ok is false when the item is
// not central-bank content.
func (c *Classifier) Classify(text string) (models.Classification, bool) {
	lower := strings.ToLower(text)

	inst, matched := c.matchInstitution(lower)
	if !matched {
		return models.Classification{}, false
	}

	speaker := matchSpeaker(lower, inst)

	// Content type in priority order: press conference beats speech.
	var contentType models.ContentType
	switch {
	case containsAny(lower, pressConferenceTerms):
		contentType = models.ContentPressConference
	case containsAny(lower, speechTerms):
		contentType = models.ContentSpeech
	}

	typeHit := contentType != ""
	quoteHit := speaker != GenericSpeaker && containsAny(lower, quoteTerms)
	if !typeHit && !quoteHit {
		return models.Classification{}, false
	}

	// Asymmetric exclusion: generic market vocabulary rejects the item
	// unless an explicit speech/press keyword is also present.
	if !typeHit && containsAny(lower, exclusionTerms) {
		return models.Classification{}, false
	}

	// Quote-only acceptance counts as commentary, filed under speech.
	if !typeHit {
		contentType = models.ContentSpeech
	}

	return models.Classification{
		Institution: inst.Name,
		Code:        inst.Code,
		Speaker:     speaker,
		Type:        contentType,
	}, true
}

func (c *Classifier) matchInstitution(lower string) (InstitutionRule, bool) {
	for _, rule := range c.institutions {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule, true
			}
		}
		for _, official := range rule.Officials {
			if strings.Contains(lower, strings.ToLower(official)) {
				return rule, true
			}
		}
	}
	return InstitutionRule{}, false
}

func matchSpeaker(lower string, rule InstitutionRule) string {
	for _, official := range rule.Officials {
		if strings.Contains(lower, strings.ToLower(official)) {
			return official
		}
	}
	return GenericSpeaker
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// SourceTagFor maps a content type onto the timeline source tag.
func SourceTagFor(ct models.ContentType) models.SourceTag {
	if ct == models.ContentPressConference {
		return models.SourceCBPressConference
	}
	return models.SourceCBSpeech
}
