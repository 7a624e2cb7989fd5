// Package i18n holds the translation tables and the localized threat
// explainer. Tables are process-wide immutable data: they are never
// mutated after init, so no locking is required.
package i18n

import "golang.org/x/text/language"

// Locale is a supported output language.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleHI Locale = "hi"
	LocaleMR Locale = "mr"
)

var supportedTags = []language.Tag{
	language.English, // en - also the fallback
	language.Hindi,   // hi
	language.Marathi, // mr
}

var matcher = language.NewMatcher(supportedTags)

// Normalize maps an arbitrary locale string to a supported Locale.
// Unrecognized or unsupported locales default to English rather than
// erroring.
func Normalize(s string) Locale {
	if s == "" {
		return LocaleEN
	}
	tag, err := language.Parse(s)
	if err != nil {
		return LocaleEN
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return LocaleEN
	}
	switch idx {
	case 1:
		return LocaleHI
	case 2:
		return LocaleMR
	default:
		return LocaleEN
	}
}

// T resolves a translation key for a locale. Missing keys fall back to
// the English table; a key absent there too yields "".
func T(locale Locale, key string) string {
	if table, ok := translations[locale]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	return translations[LocaleEN][key]
}

// translations maps locale -> key -> text. English is complete by
// definition; other locales may lag behind and fall back per key.
var translations = map[Locale]map[string]string{
	LocaleEN: {
		// Attack pattern names
		"double_tld":          "Double TLD Deception",
		"brand_impersonation": "Brand Impersonation",
		"excessive_hyphens":   "Excessive Hyphens",
		"excessive_dots":      "Excessive Dots",
		"ip_address":          "IP Address Instead of Domain",
		"suspicious_tld":      "Suspicious TLD",
		"url_too_long":        "URL Obfuscation",
		"encoded_chars":       "Encoded Characters",
		"subdomain_brand":     "Brand in Subdomain",
		"punycode":            "Punycode/Homograph Attack",
		"port_number":         "Non-Standard Port",
		"no_https":            "Missing HTTPS",

		// Reason templates
		"reason_double_tld":        "The link contains more than one extension (like .com.com), which is commonly used in phishing",
		"reason_brand_subdomain":   "The brand name appears in the subdomain, not the real domain - this is a common trick",
		"reason_excessive_hyphens": "Too many hyphens in the domain make it look suspicious",
		"reason_excessive_dots":    "Excessive dots suggest an attempt to hide the real domain",
		"reason_ip_address":        "Using an IP address instead of a domain name is unusual and often malicious",
		"reason_suspicious_tld":    "The domain uses a top-level domain commonly associated with spam or abuse",
		"reason_url_long":          "Unusually long URLs may be trying to hide malicious parts",
		"reason_encoded_chars":     "Encoded characters can be used to disguise malicious URLs",
		"reason_subdomain_brand":   "A legitimate brand name appears before the actual domain - this is deceptive",
		"reason_punycode":          "The URL uses special characters that look like letters to trick you",
		"reason_port_number":       "Non-standard port numbers are rarely used by legitimate websites",
		"reason_no_https":          "The link does not use secure HTTPS - your data may not be protected",

		// Explanation templates
		"explanation_malicious":  "This link is designed to look like {brand} but is actually controlled by a different domain.",
		"explanation_suspicious": "This link shows some signs of being potentially misleading or unsafe.",
		"explanation_safe":       "This link appears to be legitimate with no obvious signs of deception.",

		// Safety tips
		"tip_double_tld":      "Always check the domain extension. A real site like google.com will never be google.com.com.",
		"tip_brand_subdomain": "If a link uses a brand name but does not end with the official domain, avoid clicking it.",
		"tip_ip_address":      "Legitimate websites always use domain names, not IP addresses. Be very careful.",
		"tip_general":         "When in doubt, go directly to the official website by typing the address yourself.",
		"tip_verify":          "Verify the URL by hovering over links before clicking, and look for the lock icon in your browser.",
		"tip_no_https":        "Only enter sensitive information on websites that show a padlock icon in the browser.",
	},
	LocaleHI: {
		"double_tld":          "डबल TLD धोखा",
		"brand_impersonation": "ब्रांड प्रतिरूपण",
		"excessive_hyphens":   "अत्यधिक हाइफ़न",
		"excessive_dots":      "अत्यधिक डॉट्स",
		"ip_address":          "डोमेन के बजाय IP पता",
		"suspicious_tld":      "संदिग्ध TLD",
		"url_too_long":        "URL भ्रम",
		"encoded_chars":       "एन्कोडेड अक्षर",
		"subdomain_brand":     "सबडोमेन में ब्रांड",
		"punycode":            "पुनीकोड/होमोग्राफ़ हमला",
		"port_number":         "गैर-मानक पोर्ट",
		"no_https":            "HTTPS नहीं है",

		"reason_double_tld":        "इस लिंक में एक से अधिक एक्सटेंशन (.com.com जैसे) है, जो फ़िशिंग में आम है",
		"reason_brand_subdomain":   "ब्रांड का नाम सबडोमेन में है, असली डोमेन में नहीं - यह एक आम चाल है",
		"reason_excessive_hyphens": "डोमेन में बहुत सारे हाइफ़न इसे संदिग्ध बनाते हैं",
		"reason_excessive_dots":    "अत्यधिक डॉट्स असली डोमेन छिपाने का प्रयास दर्शाते हैं",
		"reason_ip_address":        "डोमेन नाम के बजाय IP पता का उपयोग असामान्य और अक्सर दुर्भावनापूर्ण होता है",
		"reason_suspicious_tld":    "यह डोमेन स्पैम या दुरुपयोग से जुड़े TLD का उपयोग करता है",
		"reason_url_long":          "असामान्य रूप से लंबे URL दुर्भावनापूर्ण भागों को छिपाने की कोशिश कर सकते हैं",
		"reason_encoded_chars":     "एन्कोडेड अक्षर दुर्भावनापूर्ण URL को छिपाने के लिए उपयोग किए जा सकते हैं",
		"reason_subdomain_brand":   "एक वैध ब्रांड नाम वास्तविक डोमेन से पहले दिखाई देता है - यह धोखाधड़ी है",
		"reason_punycode":          "URL विशेष अक्षरों का उपयोग करता है जो अक्षरों जैसे दिखते हैं",
		"reason_port_number":       "गैर-मानक पोर्ट नंबर वैध वेबसाइटों द्वारा शायद ही उपयोग किए जाते हैं",
		"reason_no_https":          "यह लिंक सुरक्षित HTTPS का उपयोग नहीं करता - आपका डेटा सुरक्षित नहीं हो सकता",

		"explanation_malicious":  "यह लिंक {brand} जैसा दिखने के लिए डिज़ाइन किया गया है लेकिन वास्तव में एक अलग डोमेन द्वारा नियंत्रित है।",
		"explanation_suspicious": "यह लिंक संभावित रूप से भ्रामक या असुरक्षित होने के कुछ संकेत दिखाता है।",
		"explanation_safe":       "यह लिंक वैध प्रतीत होता है और धोखे के कोई स्पष्ट संकेत नहीं हैं।",

		"tip_double_tld":      "हमेशा डोमेन एक्सटेंशन जांचें। google.com जैसी असली साइट कभी google.com.com नहीं होगी।",
		"tip_brand_subdomain": "अगर कोई लिंक ब्रांड नाम का उपयोग करता है लेकिन आधिकारिक डोमेन पर समाप्त नहीं होता, तो क्लिक न करें।",
		"tip_ip_address":      "वैध वेबसाइटें हमेशा डोमेन नाम का उपयोग करती हैं, IP पते का नहीं। बहुत सावधान रहें।",
		"tip_general":         "संदेह होने पर, पता खुद टाइप करके सीधे आधिकारिक वेबसाइट पर जाएं।",
		"tip_verify":          "क्लिक करने से पहले लिंक पर होवर करके URL सत्यापित करें, और अपने ब्राउज़र में लॉक आइकन देखें।",
		"tip_no_https":        "संवेदनशील जानकारी केवल उन वेबसाइटों पर दर्ज करें जो ब्राउज़र में पैडलॉक आइकन दिखाती हैं।",
	},
	LocaleMR: {
		"double_tld":          "डबल TLD फसवणूक",
		"brand_impersonation": "ब्रँड प्रतिरूपण",
		"excessive_hyphens":   "जास्त हायफन",
		"excessive_dots":      "जास्त डॉट्स",
		"ip_address":          "डोमेन ऐवजी IP पत्ता",
		"suspicious_tld":      "संशयास्पद TLD",
		"url_too_long":        "URL गोंधळ",
		"encoded_chars":       "एन्कोडेड अक्षरे",
		"subdomain_brand":     "सबडोमेनमध्ये ब्रँड",
		"punycode":            "प्युनीकोड/होमोग्राफ हल्ला",
		"port_number":         "असामान्य पोर्ट",
		"no_https":            "HTTPS नाही",

		"reason_double_tld":        "या लिंकमध्ये एकापेक्षा जास्त एक्स्टेंशन (.com.com सारखे) आहे, जे फिशिंगमध्ये सामान्य आहे",
		"reason_brand_subdomain":   "ब्रँडचे नाव सबडोमेनमध्ये आहे, खऱ्या डोमेनमध्ये नाही - ही एक सामान्य युक्ती आहे",
		"reason_excessive_hyphens": "डोमेनमध्ये खूप जास्त हायफन ते संशयास्पद बनवतात",
		"reason_excessive_dots":    "जास्त डॉट्स खरे डोमेन लपवण्याचा प्रयत्न दर्शवतात",
		"reason_ip_address":        "डोमेन नावाऐवजी IP पत्ता वापरणे असामान्य आणि बहुतेक वेळा दुर्भावनापूर्ण असते",
		"reason_suspicious_tld":    "हा डोमेन स्पॅम किंवा गैरवापराशी संबंधित TLD वापरतो",
		"reason_url_long":          "असामान्यपणे लांब URLs दुर्भावनापूर्ण भाग लपवण्याचा प्रयत्न करू शकतात",
		"reason_encoded_chars":     "एन्कोडेड अक्षरे दुर्भावनापूर्ण URLs वेष बदलण्यासाठी वापरली जाऊ शकतात",
		"reason_subdomain_brand":   "एक वैध ब्रँड नाव वास्तविक डोमेन आधी दिसते - हे फसवणूक आहे",
		"reason_punycode":          "URL विशेष अक्षरे वापरतो जी अक्षरांसारखी दिसतात",
		"reason_port_number":       "असामान्य पोर्ट नंबर वैध वेबसाइट्स क्वचितच वापरतात",
		"reason_no_https":          "हा लिंक सुरक्षित HTTPS वापरत नाही - तुमचा डेटा सुरक्षित नसू शकतो",

		"explanation_malicious":  "हा लिंक {brand} सारखा दिसण्यासाठी डिझाइन केला आहे पण प्रत्यक्षात वेगळ्या डोमेनद्वारे नियंत्रित आहे।",
		"explanation_suspicious": "हा लिंक संभाव्य भ्रामक किंवा असुरक्षित असल्याची काही चिन्हे दर्शवतो।",
		"explanation_safe":       "हा लिंक वैध दिसतो आणि फसवणुकीची कोणतीही स्पष्ट चिन्हे नाहीत।",

		"tip_double_tld":      "नेहमी डोमेन एक्स्टेंशन तपासा. google.com सारखी खरी साइट कधीही google.com.com नसेल।",
		"tip_brand_subdomain": "जर एखादा लिंक ब्रँड नाव वापरतो पण अधिकृत डोमेनवर संपत नाही, तर क्लिक करू नका।",
		"tip_ip_address":      "वैध वेबसाइट्स नेहमी डोमेन नाव वापरतात, IP पत्ते नाही. खूप सावध रहा।",
		"tip_general":         "शंका असल्यास, पत्ता स्वतः टाइप करून थेट अधिकृत वेबसाइटवर जा।",
		"tip_verify":          "क्लिक करण्यापूर्वी लिंकवर होवर करून URL सत्यापित करा, आणि तुमच्या ब्राउझरमध्ये लॉक आयकॉन शोधा।",
		"tip_no_https":        "संवेदनशील माहिती फक्त त्या वेबसाइट्सवर प्रविष्ट करा ज्या ब्राउझरमध्ये पॅडलॉक आयकॉन दाखवतात।",
	},
}
