package session

// State is the controller's position in the capture flow.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateFrozen
	StateAwaitingTranscript
	StateAwaitingConfirmation
	StateCommitting
	StateCommitted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateFrozen:
		return "frozen"
	case StateAwaitingTranscript:
		return "awaiting_transcript"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateCommitting:
		return "committing"
	case StateCommitted:
		return "committed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Spoken notices.
const (
	noticeShot       = "촬영되었습니다. 잠시만요."
	noticeCommitted  = "문서가 생성되었습니다. 목록으로 이동합니다."
	noticeUploadErr  = "업로드 중 오류가 발생했습니다. 다시 촬영하겠습니다."
	noticeRetake     = "알겠습니다. 다시 촬영하겠습니다."
	noticeNotHeard   = "죄송합니다. 응답을 이해하지 못했습니다. 다시 촬영하겠습니다."
	noticeOCRErr     = "인식 중 오류가 발생했습니다. 다시 촬영하겠습니다."
	noticeCaptureErr = "촬영에 실패했습니다. 다시 촬영하겠습니다."
)

// Status messages.
const (
	statusStarting     = "카메라 초기화 중..."
	statusScanning     = "문서를 가이드에 맞추면 자동 촬영합니다. 촬영 후 결과를 읽어드리고, 맞는지 물어보겠습니다."
	statusFrozen       = "자동 촬영 중..."
	statusTranscribing = "OCR 인식 중..."
	statusConfirming   = "음성 응답을 기다리는 중입니다. ‘맞아요’ 또는 ‘아니에요’라고 말씀해 주세요."
	statusCommitting   = "확정하셨습니다. 문서를 생성합니다..."
	statusCommitted    = "문서 생성 완료 (#%d). 목록으로 이동합니다."
	statusRetake       = "다시 촬영합니다. 가이드에 맞춰 문서를 위치해 주세요."
	statusNotHeard     = "확실하지 않음: 응답을 이해하지 못했습니다%s. 다시 촬영합니다."
	statusOCRErr       = "OCR 인식 오류: %s. 다시 시도해 주세요."
	statusUploadErr    = "업로드 오류: %s"
	statusCaptureErr   = "촬영 오류: %s"
	statusStartErr     = "카메라/마이크 열기 실패: %s"
	statusClosed       = "세션을 종료했습니다."
)
