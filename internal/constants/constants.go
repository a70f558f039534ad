package constants

import "time"

// Exam page layout
const ExamURL = "https://egzamin-informatyk.pl/testy-inf02-ee08-sprzet-systemy-sieci/"
const QuestionCount = 40
const QuestionBoxSelector = ".trescE"
const OptionIDPrefix = "odp"
const AnswerInputIDPrefix = "ans"
const CookieRejectSelector = ".fc-secondary-button"
const CookieWaitTimeout = 5 * time.Second

// CheckAnswerScript marks the input whose id is passed as the only argument
// and throws when the page has no such input.
const CheckAnswerScript = `(id) => { const el = document.getElementById(id); if (!el) { throw new Error("no answer input #" + id); } el.checked = true; }`

// Answer key
const DefaultDatabasePath = "EE08.sqlite"
const DefaultAnswerTable = "EE08"

// Browser behaviour
const NavigationTimeout = 30 * time.Second

// Request behaviour (static backend)
const HttpTimeout = 20 * time.Second
const MaxRetries = 3

// Backoff configuration
const InitalBackoff = time.Second
const BackoffFactor = 2.0

// HTTP Transport Tuning (in http client)
const MaxIdleConns = 10
const MaxIdleConnsPerHost = 10
const MaxConnsPerHost = 10

// Connection Timeouts (also in http client)
const IdleConnTimeout = 90 * time.Second
const TLSHandshakeTimeout = 10 * time.Second
const ResponseHeaderTimeout = 10 * time.Second
const ExpectContinueTimeout = 1 * time.Second
