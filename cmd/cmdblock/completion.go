package main

import "fmt"

func completionMain(args []string) {
	shell := "bash"
	if len(args) > 0 && args[0] != "" {
		shell = args[0]
	}
	script, err := completionScript(shell)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Print(script)
}

func completionScript(shell string) (string, error) {
	switch shell {
	case "bash":
		return bashCompletion, nil
	case "zsh":
		return zshCompletion, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (use bash or zsh)", shell)
	}
}

const bashCompletion = `
_cmdblock_completions()
{
    local cur
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "exec init-config completion --config --shell --runner --backend --cd --C --c" -- "$cur") )
        return 0
    fi

    case "${COMP_WORDS[1]}" in
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            ;;
        init-config)
            COMPREPLY=( $(compgen -W "--config --force" -- "$cur") )
            ;;
        *)
            COMPREPLY=( $(compgen -W "--config --shell --runner --backend --cd --C --c" -- "$cur") )
            ;;
    esac
}
complete -F _cmdblock_completions cmdblock
`

const zshCompletion = `
#compdef cmdblock
_cmdblock() {
    local -a subcmds
    subcmds=('exec:run one command line and print its output' 'init-config:write the default config file' 'completion:print shell completions')
    if (( CURRENT == 2 )); then
        _describe 'command' subcmds
        return
    fi
    case "$words[2]" in
        completion)
            _values 'shell' bash zsh
            ;;
        init-config)
            _arguments \
                '--config[Where to write the config]' \
                '--force[Overwrite an existing file]'
            ;;
        *)
            _arguments \
                '--config[Path to config file]' \
                '--shell[Shell interpreter]' \
                '--runner[Command runner (pipe|pty)]' \
                '--backend[Terminal backend (tea|tcell)]' \
                '--cd[Working directory for commands]' \
                '--c[Override config value key=value]'
            ;;
    esac
}
compdef _cmdblock cmdblock
`
