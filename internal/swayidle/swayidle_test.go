package swayidle

import (
	"fmt"
	"reflect"
	"testing"
)

func TestBeforeSleepArgs(t *testing.T) {
	idle := New("").Add(BeforeSleep{Command: "dothisbeforesleep"})

	expected := []string{"before-sleep", "dothisbeforesleep"}
	if !reflect.DeepEqual(idle.Args(), expected) {
		t.Fatalf("expected %v, got %v", expected, idle.Args())
	}
}

func TestAfterResumeArgs(t *testing.T) {
	idle := New("").Add(AfterResume{Command: "dothisafterresume"})

	expected := []string{"after-resume", "dothisafterresume"}
	if !reflect.DeepEqual(idle.Args(), expected) {
		t.Fatalf("expected %v, got %v", expected, idle.Args())
	}
}

func TestTimeoutArgs(t *testing.T) {
	idle := New("").Add(Timeout{Seconds: 100, Command: "timeoutcmd"})

	expected := []string{"timeout", "100", "timeoutcmd"}
	if !reflect.DeepEqual(idle.Args(), expected) {
		t.Fatalf("expected %v, got %v", expected, idle.Args())
	}

	idle.Add(Timeout{
		Seconds: 20,
		Command: "timeout2cmd",
		Resume:  "onresumecmd",
	})

	expected = append(expected,
		"timeout", "20", "timeout2cmd", "resume", "onresumecmd")
	if !reflect.DeepEqual(idle.Args(), expected) {
		t.Fatalf("expected %v, got %v", expected, idle.Args())
	}
}

func TestHookOrderPreserved(t *testing.T) {
	idle := New("").Add(
		BeforeSleep{Command: "a"},
		AfterResume{Command: "b"},
		Timeout{Seconds: 1, Command: "c"},
	)

	expected := []string{"before-sleep", "a", "after-resume", "b", "timeout", "1", "c"}
	if !reflect.DeepEqual(idle.Args(), expected) {
		t.Fatalf("expected %v, got %v", expected, idle.Args())
	}
}

func TestDaemonHooksContract(t *testing.T) {
	idle := New("").Add(DaemonHooks(4242, 300)...)

	expected := []string{
		"before-sleep", fmt.Sprintf("kill -%d 4242", int(SignalLock)),
		"after-resume", fmt.Sprintf("kill -%d 4242", int(SignalUnlock)),
		"timeout", "300", fmt.Sprintf("kill -%d 4242", int(SignalIdle)),
		"resume", fmt.Sprintf("kill -%d 4242", int(SignalActive)),
	}
	if !reflect.DeepEqual(idle.Args(), expected) {
		t.Fatalf("expected %v, got %v", expected, idle.Args())
	}
}

func TestSignalNumbers(t *testing.T) {
	if int(SignalIdle) != 35 || int(SignalActive) != 36 {
		t.Fatalf("realtime signals moved: idle %d, active %d",
			int(SignalIdle), int(SignalActive))
	}
	if int(SignalLock) == int(SignalUnlock) {
		t.Fatal("lock and unlock must be distinct signals")
	}
}
