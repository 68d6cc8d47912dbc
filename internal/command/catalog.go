package command

// defaultCatalog seeds the builtin library the first time it is observed empty.
var defaultCatalog = []string{
	"ls|List files in current directory|Linux",
	"ls -la|List all files including hidden ones|Linux",
	"cd|Change directory|Linux",
	"pwd|Print current directory path|Linux",
	"mkdir|Create new directory|Linux",
	"rm|Remove file|Linux",
	"cp|Copy file or directory|Linux",
	"mv|Move or rename file|Linux",
	"cat|Display file contents|Linux",
	"grep|Search for text in files|Linux",
	"chmod|Change file permissions|Linux",
	"chown|Change file owner|Linux",
	"ps|List running processes|Linux",
	"kill|Terminate a process|Linux",
	"df|Show disk space usage|Linux",
	"du|Show directory size|Linux",
	"tar|Archive files|Linux",
	"wget|Download file from internet|Linux",
	"curl|Transfer data from server|Linux",
	"ssh|Connect to remote server|Linux",
	"scp|Secure copy files|Linux",
	"man|Show manual page|Linux",
	"history|Show command history|Linux",
	"echo|Print text to terminal|Linux",
	"nano|Simple text editor|Linux",
	"git init|Initialize git repository|Git",
	"git clone|Copy repository from remote|Git",
	"git status|Show changed files|Git",
	"git add|Stage files for commit|Git",
	"git commit|Save staged changes|Git",
	"git push|Upload commits to remote|Git",
	"git pull|Download changes from remote|Git",
	"git branch|List or create branches|Git",
	"git checkout|Switch to branch|Git",
	"git merge|Combine branches|Git",
	"git log|Show commit history|Git",
	"git diff|Show file differences|Git",
	"vim|Open file in vim editor|Vim",
	":w|Save file in vim|Vim",
	":q|Quit vim|Vim",
	":wq|Save and quit vim|Vim",
	":q!|Force quit without saving|Vim",
	"i|Enter insert mode in vim|Vim",
	"esc|Exit insert mode in vim|Vim",
	"dd|Delete line in vim|Vim",
	"yy|Copy line in vim|Vim",
	"p|Paste in vim|Vim",
	"u|Undo in vim|Vim",
	"docker ps|List running containers|Docker",
	"docker images|List docker images|Docker",
	"docker run|Start new container|Docker",
	"docker stop|Stop running container|Docker",
	"docker build|Build image from Dockerfile|Docker",
}

// DefaultCatalog returns a fresh copy of the encoded builtin seed records.
func DefaultCatalog() []string {
	out := make([]string, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}
