package pdf

// Коды поддерживаемых языков.
const (
	LangEN = "en"
	LangFA = "fa"
	LangPS = "ps"
)

// Clause - пронумерованный пункт договора.
type Clause struct {
	Title string
	Body  string
}

// Labels - подписи полей анкеты.
type Labels struct {
	Name      string
	Email     string
	Phone     string
	Country   string
	Platforms string
	Message   string
}

// Bundle - статический текст договора на одном языке.
// Тела пунктов могут содержать {share}, {shareWords} и {related}.
type Bundle struct {
	Lang string
	RTL  bool

	PartnershipTitle string
	TerminationTitle string
	TemplateNote     string
	NumberLabel      string
	DateLabel        string

	CompanyHeading    string
	CompanyLine       string // {company}, {registration}, {address}
	ContractorHeading string
	Labels            Labels

	PartnershipClauses []Clause
	TerminationClauses []Clause

	SignatureHeading    string
	CompanySignature    string
	ContractorSignature string
	FooterLabel         string

	Placeholders    Labels
	PlaceholderLink string
	RelatedUnknown  string
	NotSpecified    string
}

var bundles = map[string]*Bundle{
	LangEN: &enBundle,
	LangFA: &faBundle,
	LangPS: &psBundle,
}

// IsSupported сообщает, есть ли для языка собственный набор текстов.
func IsSupported(lang string) bool {
	_, ok := bundles[lang]
	return ok
}

// BundleFor возвращает набор текстов для языка; для неизвестного кода - английский.
func BundleFor(lang string) *Bundle {
	if b, ok := bundles[lang]; ok {
		return b
	}
	return bundles[LangEN]
}

var enBundle = Bundle{
	Lang: LangEN,

	PartnershipTitle: "CREATOR PARTNERSHIP AGREEMENT",
	TerminationTitle: "PARTNERSHIP TERMINATION AGREEMENT",
	TemplateNote:     "Template for reference only",
	NumberLabel:      "Contract No.",
	DateLabel:        "Date",

	CompanyHeading:    "The Company",
	CompanyLine:       "{company}, registration No. {registration}, located at {address}, hereinafter referred to as the \"Company\".",
	ContractorHeading: "The Creator",
	Labels: Labels{
		Name:      "Full name",
		Email:     "Email",
		Phone:     "Phone",
		Country:   "Country",
		Platforms: "Platforms",
		Message:   "Additional information",
	},

	PartnershipClauses: []Clause{
		{"Subject of the Agreement", "The Company engages the Creator to produce and publish original content on the platforms listed above, and the Creator agrees to cooperate with the Company under the terms of this Agreement."},
		{"Obligations of the Creator", "The Creator shall publish content regularly, keep the listed channels active, follow the community guidelines of each platform, and inform the Company of any change to the channels within seven days."},
		{"Obligations of the Company", "The Company shall provide promotional support, access to brand campaigns and monthly performance reports, and shall pay the Creator the revenue share defined in this Agreement."},
		{"Revenue Share", "The Creator receives {share}% ({shareWords} percent) of the net revenue generated through campaigns arranged by the Company. Payments are made monthly, within fifteen days after the end of each calendar month."},
		{"Intellectual Property", "The Creator retains ownership of all original content. The Creator grants the Company a non-exclusive licence to use the content for promotion of the partnership for the duration of this Agreement."},
		{"Confidentiality", "Both parties shall keep confidential all commercial terms and non-public information received in connection with this Agreement, during its term and for two years after its end."},
		{"Term and Termination", "This Agreement enters into force on the date of approval and remains valid for one year. It renews automatically unless either party gives thirty days written notice of termination."},
		{"Governing Law and Disputes", "Disputes arising from this Agreement shall first be settled by negotiation. If no settlement is reached within thirty days, the dispute shall be referred to the competent court at the registered address of the Company."},
	},
	TerminationClauses: []Clause{
		{"Subject of the Agreement", "The parties agree to terminate the partnership agreement {related} under the conditions set out below."},
		{"Settlement", "The Company shall pay all revenue share accrued up to the termination date within thirty days. No further campaigns will be assigned to the Creator."},
		{"Content and Licences", "The licence granted to the Company ends on the termination date. Content already published within running campaigns may remain online until the campaign ends."},
		{"Confidentiality", "The confidentiality obligations of the original agreement remain in force for two years after termination."},
	},

	SignatureHeading:    "Signatures",
	CompanySignature:    "For the Company",
	ContractorSignature: "The Creator",
	FooterLabel:         "Contract ID",

	Placeholders: Labels{
		Name:      "[Full name]",
		Email:     "[Email]",
		Phone:     "[Phone]",
		Country:   "[Country]",
		Platforms: "[Platform name]",
		Message:   "[Additional information]",
	},
	PlaceholderLink: "[Link]",
	RelatedUnknown:  "[Contract No.]",
	NotSpecified:    "-",
}

var faBundle = Bundle{
	Lang: LangFA,
	RTL:  true,

	PartnershipTitle: "قرارداد همکاری تولیدکننده محتوا",
	TerminationTitle: "توافق‌نامه فسخ همکاری",
	TemplateNote:     "نمونه قرارداد، فقط جهت اطلاع",
	NumberLabel:      "شماره قرارداد",
	DateLabel:        "تاریخ",

	CompanyHeading:    "شرکت",
	CompanyLine:       "{company}، به شماره ثبت {registration}، به نشانی {address}، که از این پس «شرکت» نامیده می‌شود.",
	ContractorHeading: "تولیدکننده محتوا",
	Labels: Labels{
		Name:      "نام و نام خانوادگی",
		Email:     "ایمیل",
		Phone:     "تلفن",
		Country:   "کشور",
		Platforms: "پلتفرم‌ها",
		Message:   "توضیحات تکمیلی",
	},

	PartnershipClauses: []Clause{
		{"موضوع قرارداد", "شرکت، تولیدکننده محتوا را برای تولید و انتشار محتوای اصیل در پلتفرم‌های ذکرشده به کار می‌گیرد و تولیدکننده محتوا موافقت می‌کند طبق شرایط این قرارداد با شرکت همکاری کند."},
		{"تعهدات تولیدکننده محتوا", "تولیدکننده محتوا باید به‌طور منظم محتوا منتشر کند، کانال‌های ذکرشده را فعال نگه دارد، قوانین هر پلتفرم را رعایت کند و هرگونه تغییر در کانال‌ها را ظرف هفت روز به شرکت اطلاع دهد."},
		{"تعهدات شرکت", "شرکت حمایت تبلیغاتی، دسترسی به کمپین‌های برند و گزارش ماهانه عملکرد را فراهم می‌کند و سهم درآمد تعیین‌شده در این قرارداد را به تولیدکننده محتوا پرداخت می‌کند."},
		{"سهم درآمد", "تولیدکننده محتوا {share} درصد از درآمد خالص کمپین‌هایی را که از طریق شرکت انجام می‌شود دریافت می‌کند. پرداخت‌ها ماهانه و حداکثر پانزده روز پس از پایان هر ماه انجام می‌شود."},
		{"مالکیت فکری", "مالکیت تمام محتوای اصلی با تولیدکننده محتوا باقی می‌ماند. تولیدکننده محتوا در مدت این قرارداد مجوز غیرانحصاری استفاده از محتوا برای معرفی همکاری را به شرکت اعطا می‌کند."},
		{"محرمانگی", "طرفین موظف‌اند شرایط تجاری و اطلاعات غیرعمومی مرتبط با این قرارداد را در مدت قرارداد و تا دو سال پس از پایان آن محرمانه نگه دارند."},
		{"مدت و فسخ", "این قرارداد از تاریخ تأیید به مدت یک سال معتبر است و به‌طور خودکار تمدید می‌شود، مگر اینکه یکی از طرفین سی روز قبل به‌صورت کتبی فسخ را اعلام کند."},
		{"قانون حاکم و حل اختلاف", "اختلافات ناشی از این قرارداد ابتدا از طریق مذاکره حل می‌شود. در صورت عدم توافق ظرف سی روز، موضوع به دادگاه صالح محل ثبت شرکت ارجاع می‌شود."},
	},
	TerminationClauses: []Clause{
		{"موضوع توافق‌نامه", "طرفین توافق می‌کنند قرارداد همکاری {related} را با شرایط زیر فسخ کنند."},
		{"تسویه حساب", "شرکت تمام سهم درآمد تعلق‌گرفته تا تاریخ فسخ را ظرف سی روز پرداخت می‌کند. پس از آن کمپین جدیدی به تولیدکننده محتوا واگذار نمی‌شود."},
		{"محتوا و مجوزها", "مجوز اعطاشده به شرکت در تاریخ فسخ پایان می‌یابد. محتوای منتشرشده در کمپین‌های جاری می‌تواند تا پایان کمپین باقی بماند."},
		{"محرمانگی", "تعهدات محرمانگی قرارداد اصلی تا دو سال پس از فسخ به قوت خود باقی است."},
	},

	SignatureHeading:    "امضاها",
	CompanySignature:    "از طرف شرکت",
	ContractorSignature: "تولیدکننده محتوا",
	FooterLabel:         "شناسه قرارداد",

	Placeholders: Labels{
		Name:      "[نام و نام خانوادگی]",
		Email:     "[ایمیل]",
		Phone:     "[تلفن]",
		Country:   "[کشور]",
		Platforms: "[نام پلتفرم]",
		Message:   "[توضیحات]",
	},
	PlaceholderLink: "[لینک]",
	RelatedUnknown:  "[شماره قرارداد]",
	NotSpecified:    "-",
}

var psBundle = Bundle{
	Lang: LangPS,
	RTL:  true,

	PartnershipTitle: "د منځپانګې جوړونکي د همکارۍ تړون",
	TerminationTitle: "د همکارۍ د فسخ تړون",
	TemplateNote:     "د تړون نمونه، یوازې د معلوماتو لپاره",
	NumberLabel:      "د تړون شمېره",
	DateLabel:        "نېټه",

	CompanyHeading:    "شرکت",
	CompanyLine:       "{company}، د ثبت شمېره {registration}، پته {address}، چې له دې وروسته «شرکت» بلل کېږي.",
	ContractorHeading: "منځپانګې جوړونکی",
	Labels: Labels{
		Name:      "بشپړ نوم",
		Email:     "برېښنالیک",
		Phone:     "تلیفون",
		Country:   "هېواد",
		Platforms: "پلیټفارمونه",
		Message:   "نور معلومات",
	},

	PartnershipClauses: []Clause{
		{"د تړون موضوع", "شرکت منځپانګې جوړونکی د یادو شویو پلیټفارمونو پر مخ د اصلي منځپانګې د جوړولو او خپرولو لپاره ګماري، او منځپانګې جوړونکی موافقه کوي چې د دې تړون د شرایطو سره سم له شرکت سره همکاري وکړي."},
		{"د منځپانګې جوړونکي ژمنې", "منځپانګې جوړونکی باید په منظم ډول منځپانګه خپره کړي، یاد شوي چینلونه فعال وساتي، د هر پلیټفارم قوانین رعایت کړي او د چینلونو هر ډول بدلون په اوو ورځو کې شرکت ته خبر کړي."},
		{"د شرکت ژمنې", "شرکت تبلیغاتي ملاتړ، د برانډ کمپاینونو ته لاسرسی او میاشتني راپورونه برابروي، او په دې تړون کې ټاکل شوې د عاید ونډه منځپانګې جوړونکي ته ورکوي."},
		{"د عاید ونډه", "منځپانګې جوړونکی د هغو کمپاینونو له خالص عاید څخه چې د شرکت له لارې ترسره کېږي {share} سلنه ترلاسه کوي. تادیات هره میاشت د میاشتې له پای څخه تر پنځلسو ورځو پورې ترسره کېږي."},
		{"فکري ملکیت", "د ټولې اصلي منځپانګې ملکیت له منځپانګې جوړونکي سره پاتې کېږي. منځپانګې جوړونکی د تړون په موده کې شرکت ته د همکارۍ د معرفي لپاره د منځپانګې د کارولو غیر انحصاري جواز ورکوي."},
		{"محرمیت", "دواړه خواوې مکلفې دي چې سوداګریز شرایط او د دې تړون اړوند غیر عامه معلومات د تړون په موده کې او له پای ته رسېدو دوه کاله وروسته پورې پټ وساتي."},
		{"موده او فسخ", "دا تړون د تایید له نېټې څخه د یو کال لپاره اعتبار لري او په اتومات ډول نوی کېږي، مګر دا چې یوه خوا دېرش ورځې مخکې په لیکلي ډول د فسخ خبر ورکړي."},
		{"تطبیقېدونکی قانون او د شخړو حل", "له دې تړون څخه راولاړې شوې شخړې لومړی د خبرو اترو له لارې حلېږي. که په دېرشو ورځو کې موافقه ونه شي، موضوع د شرکت د ثبت ځای واکمنې محکمې ته سپارل کېږي."},
	},
	TerminationClauses: []Clause{
		{"د تړون موضوع", "خواوې موافقه کوي چې د همکارۍ تړون {related} د لاندې شرایطو سره سم فسخ کړي."},
		{"تصفیه", "شرکت د فسخ تر نېټې پورې ټوله ترلاسه شوې د عاید ونډه په دېرشو ورځو کې ورکوي. له دې وروسته منځپانګې جوړونکي ته نوی کمپاین نه سپارل کېږي."},
		{"منځپانګه او جوازونه", "شرکت ته ورکړل شوی جواز د فسخ په نېټه پای ته رسېږي. په روانو کمپاینونو کې خپره شوې منځپانګه د کمپاین تر پایه پاتې کېدای شي."},
		{"محرمیت", "د اصلي تړون د محرمیت ژمنې د فسخ څخه دوه کاله وروسته پورې پاتې کېږي."},
	},

	SignatureHeading:    "لاسلیکونه",
	CompanySignature:    "د شرکت له خوا",
	ContractorSignature: "منځپانګې جوړونکی",
	FooterLabel:         "د تړون پېژندنه",

	Placeholders: Labels{
		Name:      "[بشپړ نوم]",
		Email:     "[برېښنالیک]",
		Phone:     "[تلیفون]",
		Country:   "[هېواد]",
		Platforms: "[د پلیټفارم نوم]",
		Message:   "[نور معلومات]",
	},
	PlaceholderLink: "[لینک]",
	RelatedUnknown:  "[د تړون شمېره]",
	NotSpecified:    "-",
}
