package task

type TaskStatus string

const (
	TODO        TaskStatus = "TODO"
	IN_PROGRESS TaskStatus = "IN_PROGRESS"
	DONE        TaskStatus = "DONE"
)

var AllStatuses = []TaskStatus{
	TODO,
	IN_PROGRESS,
	DONE,
}

func (s TaskStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}
