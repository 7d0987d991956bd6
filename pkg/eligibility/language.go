package eligibility

import "golang.org/x/text/language"

var supportedLanguages = []language.Tag{
	language.English,
	language.Spanish,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// PreferredLanguage picks the study language for an Accept-Language header.
func PreferredLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English.String()
	}
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return language.English.String()
	}
	base, _ := supportedLanguages[index].Base()
	return base.String()
}
