package answer

import "rne-assistant/internal/lang"

// locale holds every user-facing string for one language. Field fallbacks
// differ per field in French because of grammatical gender.
type locale struct {
	documentHeader string // fmt: index, relevance score

	codeLabel      string
	typeLabel      string
	genreLabel     string
	procedureLabel string
	feeLabel       string
	deadlineLabel  string
	contentLabel   string
	pdfLabel       string

	typeFallback      string
	genreFallback     string
	procedureFallback string
	feeFallback       string
	deadlineFallback  string
	pdfFallback       string

	// sentinel is the context block emitted when retrieval found nothing.
	sentinel string

	// noResults is the user-visible reply on the sentinel path.
	noResults string

	// apology is the user-visible reply when generation fails after retries.
	apology string

	referencesHeading string
	referenceCode     string // fmt: code
	referenceLink     string // markdown link label
}

var localeFR = locale{
	documentHeader: "--- Document %d (Pertinence: %.2f) ---",

	codeLabel:      "Code",
	typeLabel:      "Type d'entreprise",
	genreLabel:     "Genre d'entreprise",
	procedureLabel: "Procédure",
	feeLabel:       "Redevance demandée",
	deadlineLabel:  "Délais",
	contentLabel:   "Contenu détaillé",
	pdfLabel:       "Lien PDF",

	typeFallback:      "Non spécifié",
	genreFallback:     "Non spécifié",
	procedureFallback: "Non spécifiée",
	feeFallback:       "Non spécifiée",
	deadlineFallback:  "Non spécifiés",
	pdfFallback:       "Non disponible",

	sentinel: "Aucun contexte pertinent trouvé.",

	noResults: "Je n'ai pas trouvé d'informations spécifiques concernant votre question dans la documentation du RNE.\n" +
		"Pourriez-vous reformuler votre question ou fournir plus de détails sur ce que vous recherchez?\n\n" +
		"Vous pouvez également consulter directement le site officiel du Registre National des Entreprises (RNE) à l'adresse : https://www.registre-entreprises.tn/",

	apology: "Désolé, je n'ai pas pu générer une réponse. Veuillez réessayer plus tard.",

	referencesHeading: "**Références:**",
	referenceCode:     "Code %s",
	referenceLink:     "Voir le document PDF",
}

var localeAR = locale{
	documentHeader: "--- الوثيقة %d (الملاءمة: %.2f) ---",

	codeLabel:      "الرمز",
	typeLabel:      "نوع المؤسسة",
	genreLabel:     "جنس المؤسسة",
	procedureLabel: "الإجراء",
	feeLabel:       "الرسوم المطلوبة",
	deadlineLabel:  "المواعيد النهائية",
	contentLabel:   "المحتوى التفصيلي",
	pdfLabel:       "رابط PDF",

	typeFallback:      "غير محدد",
	genreFallback:     "غير محدد",
	procedureFallback: "غير محدد",
	feeFallback:       "غير محددة",
	deadlineFallback:  "غير محددة",
	pdfFallback:       "غير متوفر",

	sentinel: "لم يتم العثور على سياق ذي صلة.",

	noResults: "لم أتمكن من العثور على معلومات محددة بخصوص سؤالك في وثائق السجل الوطني للمؤسسات.\n" +
		"هل يمكنك إعادة صياغة سؤالك أو تقديم المزيد من التفاصيل حول ما تبحث عنه؟\n\n" +
		"يمكنك أيضًا الرجوع مباشرة إلى الموقع الرسمي للسجل الوطني للمؤسسات على العنوان: https://www.registre-entreprises.tn/",

	apology: "آسف، ما نجمتش نولد إجابة. حاول مرة أخرى لاحقًا.",

	referencesHeading: "**المراجع:**",
	referenceCode:     "الرمز %s",
	referenceLink:     "عرض ملف PDF",
}

// localeFor returns the locale for a language code. Anything other than
// Arabic gets the French locale, matching the language fallback rule.
func localeFor(language string) locale {
	if language == lang.Arabic {
		return localeAR
	}
	return localeFR
}

// NoResultsResponse is the user-visible reply when retrieval matched no
// documents.
func NoResultsResponse(language string) string {
	return localeFor(language).noResults
}

// ApologyResponse is the user-visible reply when answer generation failed
// after all retries.
func ApologyResponse(language string) string {
	return localeFor(language).apology
}

// Sentinel returns the empty-context marker for the language.
func Sentinel(language string) string {
	return localeFor(language).sentinel
}
